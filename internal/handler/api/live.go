package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"TrueArk/internal/domain/models"
	"TrueArk/internal/usecase"
	xhttp "TrueArk/pkg/http"
	xlogger "TrueArk/pkg/logger"
)

// LiveHandler streams the current sky over a websocket: a full chart for the
// client's coordinates, recomputed on a fixed interval until the client
// disconnects. Computation bypasses the cache since every tick has a fresh
// timestamp.
type LiveHandler struct {
	logger   *xlogger.Logger
	computer *usecase.ChartComputer
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewLiveHandler(logger *xlogger.Logger, computer *usecase.ChartComputer, interval time.Duration) *LiveHandler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &LiveHandler{
		logger:   logger,
		computer: computer,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *LiveHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/live", h.Stream)
}

type liveFrame struct {
	Time  string              `json:"time"`
	Chart *models.ChartResult `json:"chart"`
}

func (h *LiveHandler) Stream(c echo.Context) error {
	lat, err1 := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	lon, err2 := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if err1 != nil || err2 != nil {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Message: "latitude and longitude query parameters are required",
		}})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	// Drain client frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		now := time.Now().UTC()
		req := &models.ChartRequest{
			DatetimeUTC: now.Format(time.RFC3339),
			Latitude:    lat,
			Longitude:   lon,
			HouseSystem: "W",
			Zodiac:      "tropical",
		}
		chart, err := h.computer.Compute(ctx, req)
		if err != nil {
			h.logger.Error("live chart compute failed", xlogger.Error(err))
			_ = conn.WriteJSON(map[string]string{"error": "computation failed"})
			return nil
		}
		if err := conn.WriteJSON(&liveFrame{Time: now.Format(time.RFC3339), Chart: chart}); err != nil {
			return nil // client went away
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
