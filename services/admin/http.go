package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resend "github.com/ccmha/rink-sync/repos/resend"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Admin is the interface for subscriber management.
type Admin interface {
	RequestSubscription(c *gin.Context, request resend.SubscribeRequest) error
	ConfirmSubscription(c *gin.Context, accessCode string) (string, error)
	Unsubscribe(c *gin.Context, accessCode string) (string, error)
	ListSubscribers(c *gin.Context) ([]string, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Admin

	// Auth-guarded router for the admin-only routes.
	Router Router

	// Open router for the mail-link subscription flow.
	Public Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	h := &httpHandler{opts}
	opts.Public.POST("/subscribe", h.subscribeHandler)
	opts.Public.GET("/confirm/:access_code", h.confirmHandler)
	opts.Public.GET("/unsubscribe/:access_code", h.unsubscribeHandler)
	opts.Router.GET("/subscribers", h.subscribersHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) subscribeHandler(c *gin.Context) {
	var request resend.SubscribeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	if err := h.Service.RequestSubscription(c, request); err != nil {
		if err == ErrInvalidEmail {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Confirmation mail sent",
	})
}

func (h *httpHandler) confirmHandler(c *gin.Context) {
	accessCode := c.Param("access_code")

	email, err := h.Service.ConfirmSubscription(c, accessCode)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not valid access code"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email, "message": "Subscription confirmed"})
}

func (h *httpHandler) unsubscribeHandler(c *gin.Context) {
	accessCode := c.Param("access_code")

	email, err := h.Service.Unsubscribe(c, accessCode)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not valid access code"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email, "message": "Unsubscribed"})
}

func (h *httpHandler) subscribersHandler(c *gin.Context) {
	subscribers, err := h.Service.ListSubscribers(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}
