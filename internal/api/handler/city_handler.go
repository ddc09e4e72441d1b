package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/travelstay/marketplace-api/internal/core/ports"
)

// CityHandler serves the public ranked city aggregate.
type CityHandler struct {
	cities ports.CityService
}

func NewCityHandler(cities ports.CityService) *CityHandler {
	return &CityHandler{cities: cities}
}

// TopCities handles GET /top-cities — no authorization required, the
// aggregate is public marketing data.
//
// @Summary      Top cities by listing count
// @Tags         cities
// @Produce      json
// @Param        limit  query     int  false  "Number of cities to return (default 3)"
// @Success      200    {array}   domain.CitySummary
// @Router       /top-cities [get]
func (h *CityHandler) TopCities(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	summaries, err := h.cities.TopCities(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}
