package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"TrueArk/internal/domain/models"
	domrepo "TrueArk/internal/domain/repository"
	"TrueArk/internal/service/ratelimit"
	"TrueArk/internal/usecase"
	xhttp "TrueArk/pkg/http"
	xlogger "TrueArk/pkg/logger"
)

// ChartsHandler exposes chart computation and storage over HTTP.
type ChartsHandler struct {
	logger *xlogger.Logger
	svc    *usecase.ChartService
	eph    domrepo.Ephemeris
	store  domrepo.ChartStore
	rl     *ratelimit.Limiter
}

func NewChartsHandler(
	logger *xlogger.Logger,
	svc *usecase.ChartService,
	eph domrepo.Ephemeris,
	store domrepo.ChartStore,
	rl *ratelimit.Limiter,
) *ChartsHandler {
	return &ChartsHandler{logger: logger, svc: svc, eph: eph, store: store, rl: rl}
}

func (h *ChartsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.POST("/chart", h.Compute)
	g.POST("/chart/store", h.ComputeAndStore)
	g.GET("/charts", h.List)
	g.GET("/charts/:id", h.Get)
}

// Health reports ephemeris mode and, when persistence is configured, store
// reachability. The service is degraded but usable without a store.
func (h *ChartsHandler) Health(c echo.Context) error {
	payload := map[string]interface{}{
		"status":         "ok",
		"ephemeris_mode": h.eph.Mode(),
		"time":           time.Now().UTC().Format(time.RFC3339),
	}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			payload["status"] = "degraded"
			payload["store"] = err.Error()
		} else {
			payload["store"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, payload)
}

func (h *ChartsHandler) Compute(c echo.Context) error {
	if !h.allow(c, "compute") {
		return rateLimitedResponse(c)
	}
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Compute(c.Request().Context(), req)
	if err != nil {
		return h.domainErrorResponse(c, "chart compute", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsHandler) ComputeAndStore(c echo.Context) error {
	if !h.allow(c, "store") {
		return rateLimitedResponse(c)
	}
	req := &models.StoreChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stored, err := h.svc.ComputeAndStore(c.Request().Context(), req)
	if err != nil {
		return h.domainErrorResponse(c, "chart store", err)
	}
	return xhttp.CreatedResponse(c, stored)
}

func (h *ChartsHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code: "ERR_REQUIRED", Field: "id", Message: "id is required",
		}})
	}

	chart, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.domainErrorResponse(c, "chart get", err)
	}
	if chart == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("chart %s not found", id))
	}
	return xhttp.SuccessResponse(c, chart)
}

func (h *ChartsHandler) List(c echo.Context) error {
	req := &models.ListChartsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	charts, err := h.svc.List(c.Request().Context(), req)
	if err != nil {
		return h.domainErrorResponse(c, "chart list", err)
	}
	return xhttp.ListResponse(c, charts, int64(len(charts)))
}

func (h *ChartsHandler) allow(c echo.Context, op string) bool {
	if h.rl == nil {
		return true
	}
	return h.rl.Allow(c.RealIP() + ":" + op)
}

func rateLimitedResponse(c echo.Context) error {
	return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
}

// domainErrorResponse maps the computation error taxonomy onto HTTP.
// Semantic validation failures are the caller's fault (422, full check
// list); ephemeris and calculation failures are ours (500).
func (h *ChartsHandler) domainErrorResponse(c echo.Context, op string, err error) error {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]xhttp.ValidationError, 0, len(verrs))
		for _, ve := range verrs {
			out = append(out, xhttp.ValidationError{
				Code:    "ERR_" + strings.ToUpper(ve.Check),
				Field:   ve.Field,
				Message: ve.Message,
				Params: map[string]interface{}{
					"expected": ve.Expected,
					"observed": ve.Observed,
				},
			})
		}
		return xhttp.DataResponse(c, http.StatusUnprocessableEntity, out)
	}

	h.logger.Error(op+" failed", xlogger.Error(err))
	if models.IsEphemeris(err) {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("ephemeris failure").WithError(err))
	}
	if models.IsCalculation(err) {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("calculation failure").WithError(err))
	}
	return xhttp.InternalServerErrorResponse(c)
}
