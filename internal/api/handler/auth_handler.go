package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartballot/voting-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new voter account.
//
// @Summary      Register a new voter
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerVoterRequest  true  "Voter registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerVoterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, voter, err := h.authService.RegisterVoter(c.Request().Context(), ports.RegisterVoterInput{
		Name:      req.Name,
		Aadhaar:   req.Aadhaar,
		Email:     req.Email,
		Password:  req.Password,
		FaceImage: req.FaceImage,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: token, Voter: newVoterView(voter)})
}

// Login authenticates a voter and returns a session token.
//
// @Summary      Voter login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials, optionally with a face image"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, voter, err := h.authService.LoginVoter(c.Request().Context(), req.Email, req.Password, req.FaceImage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, Voter: newVoterView(voter)})
}

// AdminLogin authenticates an administrator.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Admin credentials"
// @Success      200   {object}  adminAuthResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, admin, err := h.authService.LoginAdmin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminAuthResponse{Token: token, Email: admin.Email})
}
