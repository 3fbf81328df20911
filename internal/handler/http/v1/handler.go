package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/directions"
	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/service"
	"github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

// HealthChecker проверяет доступность хранилища инцидентов
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	scorer          service.SafetyScorer
	routeService    service.RouteService
	incidentService service.IncidentService
	health          HealthChecker
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(
	scorer service.SafetyScorer,
	routeService service.RouteService,
	incidentService service.IncidentService,
	health HealthChecker,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		scorer:          scorer,
		routeService:    routeService,
		incidentService: incidentService,
		health:          health,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// bindAndValidate разбирает JSON тела запроса и проверяет теги validate
func (h *Handler) bindAndValidate(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError отображает ошибки сервисов в HTTP-статусы
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	var decodeErr *geo.PolylineDecodeError

	switch {
	case errors.Is(err, service.ErrInvalidQuery):
		log.WithError(err).Warn("Invalid query")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &decodeErr):
		log.WithError(err).Warn("Malformed route polyline")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": decodeErr.Error()})
	case errors.Is(err, service.ErrScoringTimeout), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Error("Scoring timed out")
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "scoring timed out"})
	case errors.Is(err, directions.ErrUnavailable):
		log.WithError(err).Error("Directions provider failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "directions provider unavailable"})
	case errors.Is(err, service.ErrNoRoutesFound):
		log.WithError(err).Warn("No routes found")
		c.JSON(http.StatusNotFound, gin.H{"error": "no routes found"})
	case errors.Is(err, service.ErrScoringUnavailable), errors.Is(err, service.ErrStoreUnavailable):
		log.WithError(err).Error("Incident store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "safety data temporarily unavailable"})
	default:
		log.WithError(err).Error("Unexpected service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Score area safety
// @Description Score the safety of the area around a point on a 1 (dangerous) to 10 (safe) scale.
// @Tags Safety
// @Accept json
// @Produce json
// @Param query body ScoreRequest true "Point and optional radius in km"
// @Success 200 {object} ScoreResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /score [post]
func (h *Handler) score(c *gin.Context) {
	var input ScoreRequest
	log := h.logger.WithField("method", "score")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	result, err := h.scorer.Score(c.Request.Context(), ScoreDTOToQuery(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelToScoreResponse(result))
}

// @Summary Plan routes
// @Description Fetch alternative routes between two places and pick the fastest and the safest.
// @Tags Routes
// @Accept json
// @Produce json
// @Param plan body RoutePlanRequest true "Origin and destination"
// @Success 200 {object} RoutePlanResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "No routes found"
// @Failure 422 {object} map[string]string "Malformed route polyline"
// @Failure 502 {object} map[string]string "Directions provider unavailable"
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Failure 504 {object} map[string]string "Scoring timed out"
// @Router /route/plan [post]
func (h *Handler) planRoute(c *gin.Context) {
	var input RoutePlanRequest
	log := h.logger.WithField("method", "planRoute")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	plan, err := h.routeService.Plan(c.Request.Context(), input.Origin, input.Destination)
	if err != nil {
		h.respondError(c, log.WithFields(logrus.Fields{"origin": input.Origin, "destination": input.Destination}), err)
		return
	}

	c.JSON(http.StatusOK, ModelToRoutePlanResponse(plan))
}

// @Summary Evaluate routes
// @Description Score caller-provided encoded polylines and pick the safest one.
// @Tags Routes
// @Accept json
// @Produce json
// @Param routes body RouteEvaluateRequest true "Encoded route polylines"
// @Success 200 {object} RoutePlanResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 422 {object} map[string]string "Malformed route polyline"
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Failure 504 {object} map[string]string "Scoring timed out"
// @Router /route/evaluate [post]
func (h *Handler) evaluateRoutes(c *gin.Context) {
	var input RouteEvaluateRequest
	log := h.logger.WithField("method", "evaluateRoutes")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	plan, err := h.routeService.Evaluate(c.Request.Context(), EncodedRoutesDTOToModels(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelToRoutePlanResponse(plan))
}

// @Summary Incident heatmap
// @Description Get coordinates of recent incidents for heatmap rendering.
// @Tags Safety
// @Produce json
// @Success 200 {array} models.Point
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /heatmap [get]
func (h *Handler) heatmap(c *gin.Context) {
	log := h.logger.WithField("method", "heatmap")

	points, err := h.incidentService.Heatmap(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// @Summary Submit incident report
// @Description Submit a user incident report. The report is queued and appended asynchronously. Requires API key.
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param report body ReportRequest true "Incident report"
// @Success 202 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Report queue unavailable or report submission disabled"
// @Router /reports [post]
func (h *Handler) submitReport(c *gin.Context) {
	var input ReportRequest
	log := h.logger.WithField("method", "submitReport")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	incident, err := h.incidentService.SubmitReport(c.Request.Context(), ReportDTOToModel(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusAccepted, ModelToReportResponse(incident))
}

// @Summary Health check
// @Description Check the health of the service and its incident store.
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Service is healthy"
// @Failure 503 {object} map[string]string "Incident store unavailable"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := h.health.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
