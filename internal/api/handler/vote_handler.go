package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartballot/voting-api/internal/core/ports"
)

// VoteHandler serves the voter-facing routes: casting a ballot, checking
// vote status, and browsing elections and candidates.
type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Cast records a ballot for the authenticated voter.
//
// @Summary      Cast a vote
// @Tags         vote
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      castVoteRequest  true  "Election, candidate, and optional face image"
// @Success      201   {object}  castVoteResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/vote [post]
func (h *VoteHandler) Cast(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.CastVote(c.Request().Context(), ports.CastVoteInput{
		VoterID:     userID,
		ElectionID:  req.ElectionID,
		CandidateID: req.CandidateID,
		FaceImage:   req.FaceImage,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, castVoteResponse{
		BallotID:         result.BallotID,
		ElectionID:       req.ElectionID,
		Timestamp:        result.Timestamp,
		BiometricSkipped: result.BiometricSkipped,
	})
}

// Status reports whether the authenticated voter has voted in an election.
//
// @Summary      Vote status
// @Tags         vote
// @Produce      json
// @Security     BearerAuth
// @Param        election_id  path      string  true  "Election id"
// @Success      200          {object}  voteStatusResponse
// @Router       /api/vote/status/{election_id} [get]
func (h *VoteHandler) Status(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	electionID := c.Param("election_id")

	voted, err := h.service.CheckVoteStatus(c.Request().Context(), userID, electionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, voteStatusResponse{ElectionID: electionID, Voted: voted})
}

// ActiveElections lists elections currently accepting ballots.
//
// @Summary      List active elections
// @Tags         elections
// @Produce      json
// @Success      200  {array}  domain.Election
// @Router       /api/elections/active [get]
func (h *VoteHandler) ActiveElections(c echo.Context) error {
	elections, err := h.service.ListActiveElections(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, elections)
}

// Candidates lists an election's candidates with their derived vote counts.
//
// @Summary      List candidates
// @Tags         elections
// @Produce      json
// @Param        id   path     string  true  "Election id"
// @Success      200  {array}  domain.Candidate
// @Failure      404  {object} map[string]string
// @Router       /api/elections/{id}/candidates [get]
func (h *VoteHandler) Candidates(c echo.Context) error {
	candidates, err := h.service.ListCandidates(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, candidates)
}
