package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelstay/marketplace-api/internal/api/metrics"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

// AuthHandler issues session tokens. No credential check happens here: the
// frontend authenticates users through its own identity provider and then
// exchanges the identity payload for a session token.
type AuthHandler struct {
	tokens ports.TokenService
}

func NewAuthHandler(tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken handles POST /jwt.
//
// @Summary      Issue a session token for an identity payload
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]any  true  "Identity claims, must include email"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Router       /jwt [post]
func (h *AuthHandler) IssueToken(c echo.Context) error {
	claims := map[string]any{}
	if err := c.Bind(&claims); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	token, err := h.tokens.Issue(claims)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}
