package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelstay/marketplace-api/internal/api/metrics"
	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

// UserHandler handles registration, role self-lookups, and promotions.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type registerResponse struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

type roleCheckResponse struct {
	Admin *bool `json:"admin,omitempty"`
	Owner *bool `json:"owner,omitempty"`
}

type promoteRequest struct {
	Profile map[string]string `json:"profile"`
}

type promoteResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register handles POST /users — creates a principal on first registration.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User details"
// @Success      201   {object}  registerResponse
// @Success      200   {object}  registerResponse  "email was already registered"
// @Failure      400   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.users.Register(c.Request().Context(), req.Email, req.Name)
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		return c.JSON(http.StatusOK, registerResponse{Message: "user already exists", User: result.User})
	}
	return c.JSON(http.StatusCreated, registerResponse{User: result.User})
}

// List handles GET /users — admin-only view of all principals.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CheckAdmin handles GET /users/admin/:email — self-lookup of the admin flag.
// A caller asking about any identity but their own is rejected outright;
// the identity mismatch never falls through to the store lookup.
//
// @Summary      Check whether the caller is an admin
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Caller's own email"
// @Success      200    {object}  roleCheckResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /users/admin/{email} [get]
func (h *UserHandler) CheckAdmin(c echo.Context) error {
	isAdmin, err := h.selfRoleCheck(c, domain.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleCheckResponse{Admin: &isAdmin})
}

// CheckOwner handles GET /users/owner/:email — self-lookup of the owner flag.
//
// @Summary      Check whether the caller is an owner
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Caller's own email"
// @Success      200    {object}  roleCheckResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /users/owner/{email} [get]
func (h *UserHandler) CheckOwner(c echo.Context) error {
	isOwner, err := h.selfRoleCheck(c, domain.RoleOwner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleCheckResponse{Owner: &isOwner})
}

func (h *UserHandler) selfRoleCheck(c echo.Context, role string) (bool, error) {
	email, err := ctxEmail(c)
	if err != nil {
		return false, err
	}
	if c.Param("email") != email {
		metrics.AuthDenialsTotal.WithLabelValues("forbidden").Inc()
		return false, echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	resolved, err := h.users.ResolveRole(c.Request().Context(), email)
	if err != nil {
		return false, err
	}
	return resolved == role, nil
}

// PromoteAdmin handles PATCH /users/admin/:email — admin-only promotion.
//
// @Summary      Promote a user to admin
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email of the user to promote"
// @Success      200    {object}  promoteResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /users/admin/{email} [patch]
func (h *UserHandler) PromoteAdmin(c echo.Context) error {
	return h.promote(c, domain.RoleAdmin)
}

// PromoteOwner handles PATCH /users/owner/:email — admin-only promotion. The
// request body carries the owner profile stored alongside the role.
//
// @Summary      Promote a user to owner
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string          true   "Email of the user to promote"
// @Param        body   body      promoteRequest  false  "Owner profile fields"
// @Success      200    {object}  promoteResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /users/owner/{email} [patch]
func (h *UserHandler) PromoteOwner(c echo.Context) error {
	return h.promote(c, domain.RoleOwner)
}

func (h *UserHandler) promote(c echo.Context, role string) error {
	actor, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req promoteRequest
	if role == domain.RoleOwner {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	email := c.Param("email")
	if err := h.users.Promote(c.Request().Context(), ports.PromoteInput{
		Email:      email,
		TargetRole: role,
		Actor:      actor,
		Profile:    req.Profile,
	}); err != nil {
		return err
	}

	metrics.PromotionsTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusOK, promoteResponse{Email: email, Role: role})
}
