package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/interfaces/http/dto"
)

// SystemHandler exposes health and build information endpoints
type SystemHandler struct {
	BaseHandler
	db        *gorm.DB
	version   string
	startedAt time.Time
}

func NewSystemHandler(db *gorm.DB, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		version:   version,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers system routes on the given router group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/info", h.Info)
}

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Health reports liveness and database connectivity. Returns 503 when
// the database is unreachable so load balancers can rotate the node out.
func (h *SystemHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
	}

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(status))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(status))
}

// InfoResponse is the build info payload
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Info returns the service name and version
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, InfoResponse{
		Name:    "techrefresher-backend",
		Version: h.version,
	})
}
