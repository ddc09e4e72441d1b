package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelstay/marketplace-api/internal/api/metrics"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

// ListingHandler handles listing CRUD and moderation.
type ListingHandler struct {
	listings ports.ListingService
}

func NewListingHandler(listings ports.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type createListingRequest struct {
	City          string            `json:"city" validate:"required"`
	Title         string            `json:"title"`
	PricePerNight float64           `json:"price_per_night" validate:"omitempty,gte=0"`
	Status        string            `json:"status" validate:"omitempty,oneof=pending approved denied"`
	Fields        map[string]string `json:"fields"`
}

type updateListingRequest struct {
	City          *string           `json:"city"`
	Title         *string           `json:"title"`
	PricePerNight *float64          `json:"price_per_night"`
	Fields        map[string]string `json:"fields"`
}

type setStatusResponse struct {
	Matched    bool   `json:"matched"`
	UpsertedID string `json:"upserted_id,omitempty"`
}

// Create handles POST /listings — owner submits a new listing.
//
// @Summary      Create a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing details"
// @Success      201   {object}  domain.Listing
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing, err := h.listings.Create(c.Request().Context(), ports.CreateListingInput{
		OwnerEmail:    email,
		City:          req.City,
		Title:         req.Title,
		PricePerNight: req.PricePerNight,
		Status:        req.Status,
		Fields:        req.Fields,
	})
	if err != nil {
		return err
	}

	metrics.ListingsCreatedTotal.WithLabelValues(string(listing.Status)).Inc()
	return c.JSON(http.StatusCreated, listing)
}

// ListAll handles GET /listings — admin moderation view of every listing.
//
// @Summary      List all listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Listing
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /listings [get]
func (h *ListingHandler) ListAll(c echo.Context) error {
	listings, err := h.listings.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// ListMine handles GET /my-listings — listings owned by the caller. The
// scope comes from the verified identity, never from a query parameter.
//
// @Summary      List the caller's listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Listing
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /my-listings [get]
func (h *ListingHandler) ListMine(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	listings, err := h.listings.ListByOwner(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// Get handles GET /listings/:id — ownership-scoped single listing read.
//
// @Summary      Get a listing by id
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Listing id"
// @Success      200  {object}  domain.Listing
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.listings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Update handles PATCH /listings/:id — ownership-scoped partial edit.
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing id"
// @Param        body  body      updateListingRequest  true  "Fields to update"
// @Success      200   {object}  domain.Listing
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /listings/{id} [patch]
func (h *ListingHandler) Update(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	listing, err := h.listings.Update(c.Request().Context(), ports.UpdateListingInput{
		ID:         c.Param("id"),
		OwnerEmail: email,
		Patch: ports.ListingPatch{
			City:          req.City,
			Title:         req.Title,
			PricePerNight: req.PricePerNight,
			Fields:        req.Fields,
		},
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Delete handles DELETE /listings/:id — ownership-scoped removal.
//
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Listing id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	if err := h.listings.Delete(c.Request().Context(), c.Param("id"), email); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetStatus handles PATCH /listings/:id/status — admin moderation decision.
// The response distinguishes an update of an existing listing from an upsert
// of a missing id.
//
// @Summary      Approve or deny a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Listing id"
// @Param        status  query     string  true  "approved or denied"
// @Success      200     {object}  setStatusResponse
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /listings/{id}/status [patch]
func (h *ListingHandler) SetStatus(c echo.Context) error {
	actor, err := ctxEmail(c)
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	result, err := h.listings.SetStatus(c.Request().Context(), ports.SetStatusInput{
		ID:     c.Param("id"),
		Status: status,
		Actor:  actor,
	})
	if err != nil {
		return err
	}

	matchResult := "matched"
	if !result.Matched {
		matchResult = "upserted"
	}
	metrics.ModerationsTotal.WithLabelValues(status, matchResult).Inc()

	return c.JSON(http.StatusOK, setStatusResponse{
		Matched:    result.Matched,
		UpsertedID: result.UpsertedID,
	})
}
