package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/affirmly/affirmation-api/internal/core/ports"
)

// AffirmationHandler exposes the in-memory affirmation cache over HTTP.
type AffirmationHandler struct {
	cache ports.AffirmationService
}

func NewAffirmationHandler(cache ports.AffirmationService) *AffirmationHandler {
	return &AffirmationHandler{cache: cache}
}

type fetchResponse struct {
	Message     string `json:"message"`
	Affirmation string `json:"affirmation"`
}

type affirmationResponse struct {
	Affirmation string `json:"affirmation"`
}

type listResponse struct {
	Affirmations []string `json:"affirmations"`
}

type countResponse struct {
	Count int `json:"count"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Fetch pulls one affirmation from the upstream API and stores it.
//
// @Summary      Fetch and store a new affirmation
// @Tags         affirmations
// @Produce      json
// @Success      201  {object}  fetchResponse
// @Failure      500  {object}  errorResponse
// @Router       /fetch-affirmation [post]
// @Router       /fetch-affirmation [get]
func (h *AffirmationHandler) Fetch(c echo.Context) error {
	res := h.cache.Fetch(c.Request().Context())
	if !res.OK() {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to fetch affirmation."})
	}
	return c.JSON(http.StatusCreated, fetchResponse{
		Message:     "Affirmation fetched and stored.",
		Affirmation: res.Affirmation,
	})
}

// List returns every stored affirmation in fetch order.
//
// @Summary      List stored affirmations
// @Tags         affirmations
// @Produce      json
// @Success      200  {object}  listResponse
// @Router       /view-affirmations [get]
func (h *AffirmationHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, listResponse{Affirmations: h.cache.List()})
}

// Clear drops every stored affirmation.
//
// @Summary      Clear stored affirmations
// @Tags         affirmations
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /clear-affirmations [delete]
func (h *AffirmationHandler) Clear(c echo.Context) error {
	h.cache.Clear()
	return c.JSON(http.StatusOK, messageResponse{Message: "All affirmations cleared."})
}

// Count returns how many affirmations are stored.
//
// @Summary      Count stored affirmations
// @Tags         affirmations
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /affirmation-count [get]
func (h *AffirmationHandler) Count(c echo.Context) error {
	return c.JSON(http.StatusOK, countResponse{Count: h.cache.Count()})
}

// Random returns one stored affirmation chosen at random.
//
// @Summary      Random stored affirmation
// @Tags         affirmations
// @Produce      json
// @Success      200  {object}  affirmationResponse
// @Failure      404  {object}  messageResponse
// @Router       /random-affirmation [get]
func (h *AffirmationHandler) Random(c echo.Context) error {
	text, ok := h.cache.Random()
	if !ok {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "No affirmations available."})
	}
	return c.JSON(http.StatusOK, affirmationResponse{Affirmation: text})
}
