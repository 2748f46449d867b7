package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"qrMenu/internal/modules/realtime/infrastructure"
	"qrMenu/internal/platform/apiclient"
)

// HealthChecker reports the state of the menu backend.
type HealthChecker interface {
	Health(ctx context.Context) (apiclient.HealthStatus, error)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string                  `json:"status"`
	Backend       *apiclient.HealthStatus `json:"backend,omitempty"`
	BackendError  string                  `json:"backendError,omitempty"`
	Websocket     infrastructure.HubStats `json:"websocket"`
	Notifications string                  `json:"notifications"`
	Timestamp     time.Time               `json:"timestamp"`
}

// NewHealthHandler always answers 200; an unreachable backend is reported as degraded since
// cached menus are still served.
func NewHealthHandler(checker HealthChecker, hub *infrastructure.Hub, guard StreamGuard) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := HealthResponse{
			Status:        "ok",
			Websocket:     hub.Stats(),
			Notifications: statusForGuard(guard),
			Timestamp:     time.Now().UTC(),
		}
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			status, err := checker.Health(ctx)
			if err != nil {
				resp.Status = "degraded"
				resp.BackendError = err.Error()
			} else {
				resp.Backend = &status
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}
