package modules

import (
	"context"
	"expvar"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/container"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/pkg/response"
)

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

// DebugModule exposes expvar counters and a dependency health report.
// Private networks skip the limiter.
type DebugModule struct {
	Drivers map[string]string
	Checks  map[string]HealthCheck
}

func NewDebugModule(drivers map[string]string, checks map[string]HealthCheck) *DebugModule {
	return &DebugModule{Drivers: drivers, Checks: checks}
}

func (m *DebugModule) logger() *logrus.Logger {
	if l := container.GetLogger(); l != nil {
		return l
	}
	return logrus.StandardLogger()
}

type healthReport struct {
	Drivers  map[string]string `json:"drivers"`
	Services map[string]string `json:"services"`
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.Limit(container.GetRedis(), middleware.DebugVarsPolicy)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/debug/health", rl, m.health)
}

func (m *DebugModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(m.Checks))
	for name := range m.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := healthReport{Drivers: m.Drivers, Services: map[string]string{}}
	status := http.StatusOK
	for _, name := range names {
		if err := m.Checks[name](ctx); err != nil {
			m.logger().WithError(err).WithField("service", name).Warn("health check failed")
			report.Services[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		report.Services[name] = "ok"
	}
	if status != http.StatusOK {
		response.Error[healthReport](c, status, "degraded", report)
		return
	}
	response.Success(c, status, report, "healthy", nil)
}
