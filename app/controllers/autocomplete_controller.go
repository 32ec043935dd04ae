package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/app/requests"
	"github.com/Tisseo/mimirsbrunn/app/responses"
	"github.com/Tisseo/mimirsbrunn/app/services"
	"github.com/Tisseo/mimirsbrunn/internal/geojson"
)

// AutocompleteController handles the autocomplete HTTP surface.
type AutocompleteController struct {
	autocompleteService *services.AutocompleteService
	logger              *zap.Logger
}

func NewAutocompleteController(autocompleteService *services.AutocompleteService, logger *zap.Logger) *AutocompleteController {
	return &AutocompleteController{
		autocompleteService: autocompleteService,
		logger:              logger,
	}
}

// Autocomplete serves GET /v1/autocomplete.
func (ac *AutocompleteController) Autocomplete(c *gin.Context) {
	var params requests.AutocompleteParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest,
			responses.NewErrorResponse("INVALID_REQUEST", err.Error()))
		return
	}
	ac.serve(c, &params, nil)
}

// AutocompleteWithShape serves POST /v1/autocomplete: same query string,
// plus a body carrying the geographic shape restricting the results.
func (ac *AutocompleteController) AutocompleteWithShape(c *gin.Context) {
	var params requests.AutocompleteParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest,
			responses.NewErrorResponse("INVALID_REQUEST", err.Error()))
		return
	}

	var body requests.ShapeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest,
			responses.NewErrorResponse("INVALID_REQUEST", err.Error()))
		return
	}

	ring, err := geojson.ExtractRing(body.Shape)
	if err != nil {
		ac.renderError(c, err)
		return
	}
	ac.serve(c, &params, ring)
}

func (ac *AutocompleteController) serve(c *gin.Context, params *requests.AutocompleteParams, shape [][2]float64) {
	resp, err := ac.autocompleteService.Autocomplete(c.Request.Context(), params, shape)
	if err != nil {
		ac.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// renderError maps domain errors onto HTTP statuses. Validation failures
// are the caller's fault, backend failures are a service failure.
func (ac *AutocompleteController) renderError(c *gin.Context, err error) {
	var (
		invalidParam *models.InvalidParamError
		invalidShape *models.InvalidShapeError
		backendErr   *models.BackendError
	)
	switch {
	case errors.As(err, &invalidParam):
		c.JSON(http.StatusBadRequest,
			responses.NewErrorResponse("INVALID_PARAM", invalidParam.Msg))
	case errors.As(err, &invalidShape):
		c.JSON(http.StatusBadRequest,
			responses.NewErrorResponse("INVALID_SHAPE", invalidShape.Reason))
	case errors.As(err, &backendErr):
		ac.logger.Error("autocomplete backend failure", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable,
			responses.NewErrorResponse("BACKEND_ERROR", "search backend unavailable"))
	default:
		ac.logger.Error("autocomplete failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError,
			responses.NewErrorResponse("INTERNAL_ERROR", err.Error()))
	}
}

// Health serves GET /health.
func (ac *AutocompleteController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  map[string]string{"api": "up"},
	})
}
