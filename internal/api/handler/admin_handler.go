package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartballot/voting-api/internal/core/ports"
)

// AdminHandler serves election management and the reporting surface. All of
// its routes sit behind Auth plus RBAC(admin).
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// CreateElection creates an election in active status.
//
// @Summary      Create an election
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createElectionRequest  true  "Election details"
// @Success      201   {object}  domain.Election
// @Failure      400   {object}  map[string]string
// @Router       /api/admin/elections [post]
func (h *AdminHandler) CreateElection(c echo.Context) error {
	var req createElectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	election, err := h.service.CreateElection(c.Request().Context(), ports.CreateElectionInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, election)
}

// ListElections returns every election regardless of status.
func (h *AdminHandler) ListElections(c echo.Context) error {
	elections, err := h.service.ListElections(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, elections)
}

// CreateCandidate adds a candidate to an existing election.
//
// @Summary      Add a candidate
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCandidateRequest  true  "Candidate details"
// @Success      201   {object}  domain.Candidate
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/candidates [post]
func (h *AdminHandler) CreateCandidate(c echo.Context) error {
	var req createCandidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	candidate, err := h.service.CreateCandidate(c.Request().Context(), ports.CreateCandidateInput{
		Name:       req.Name,
		Party:      req.Party,
		ElectionID: req.ElectionID,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, candidate)
}

// DeleteCandidate removes a candidate.
func (h *AdminHandler) DeleteCandidate(c echo.Context) error {
	if err := h.service.DeleteCandidate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListVoters returns the registered voters.
func (h *AdminHandler) ListVoters(c echo.Context) error {
	voters, err := h.service.ListVoters(c.Request().Context())
	if err != nil {
		return err
	}

	views := make([]voterView, 0, len(voters))
	for i := range voters {
		views = append(views, newVoterView(&voters[i]))
	}
	return c.JSON(http.StatusOK, views)
}

// Results returns the derived tally for an election.
//
// @Summary      Election results
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Election id"
// @Success      200  {object}  electionResultsResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/elections/{id}/results [get]
func (h *AdminHandler) Results(c echo.Context) error {
	electionID := c.Param("id")
	results, err := h.service.Results(c.Request().Context(), electionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, electionResultsResponse{
		ElectionID: electionID,
		Candidates: results.Candidates,
		TotalVotes: results.TotalVotes,
	})
}

// Stats returns system-wide counters.
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// DetectFraud runs the advisory anomaly pass over the ballot ledger.
//
// @Summary      Detect anomalous ballots
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  fraudReportResponse
// @Router       /api/admin/fraud/detect [get]
func (h *AdminHandler) DetectFraud(c echo.Context) error {
	flagged, err := h.service.DetectFraud(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fraudReportResponse{Flagged: flagged, Count: len(flagged)})
}
