package detect

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ccmha/rink-sync/pkg/models"
	grayjay "github.com/ccmha/rink-sync/repos/grayjay"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Detect is the interface for the change detection service.
type Detect interface {
	RunDetection(ctx context.Context) (models.ChangeReport, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Detect

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/changes", h.detectChangesHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) detectChangesHandler(c *gin.Context) {
	report, err := h.Service.RunDetection(c.Request.Context())
	if err != nil {
		if err == grayjay.ErrNoSchedule {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"added":    len(report.Added),
		"removed":  len(report.Removed),
		"modified": len(report.Modified),
		"changed":  !report.IsEmpty(),
	})
}
