package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/SorryIWinxX/webmanager/internal/repository"
	"github.com/SorryIWinxX/webmanager/internal/sap"
	"github.com/SorryIWinxX/webmanager/internal/service"
)

// Server wraps the gin engine and collaborators needed to handle API requests.
type Server struct {
	Engine    *gin.Engine
	notices   *service.NoticeService
	users     *service.UserService
	auth      *service.AuthService
	reporters *service.ReporterService
	sync      *service.SyncService
	orders    repository.SAPOrderRepository
	logger    *zap.Logger
}

// NewServer constructs a new API server and registers routes.
func NewServer(
	notices *service.NoticeService,
	users *service.UserService,
	auth *service.AuthService,
	reporters *service.ReporterService,
	syncSvc *service.SyncService,
	orders repository.SAPOrderRepository,
	logger *zap.Logger,
) *Server {
	router := gin.Default()
	srv := &Server{
		Engine:    router,
		notices:   notices,
		users:     users,
		auth:      auth,
		reporters: reporters,
		sync:      syncSvc,
		orders:    orders,
		logger:    logger,
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) registerRoutes() {
	s.Engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.Engine.Group("/api")
	api.GET("/notices", s.listNotices)
	api.POST("/notices", s.createNotice)
	api.GET("/notices/selection", s.getSelection)
	api.POST("/notices/selection", s.updateSelection)
	api.POST("/notices/send", s.sendNotices)
	api.GET("/notices/:id", s.getNotice)
	api.PUT("/notices/:id", s.updateNotice)

	api.GET("/sap-orders", s.listSAPOrders)

	api.GET("/users", s.listUsers)
	api.POST("/users", s.addUser)
	api.DELETE("/users/:id", s.deleteUser)
	api.POST("/users/:id/change-password", s.changePassword)

	api.GET("/reporters", s.listReporters)
	api.POST("/reporters", s.createReporter)
	api.DELETE("/reporters/:id", s.deleteReporter)

	api.POST("/auth/login", s.login)
	api.POST("/sync", s.runSync)
}

// bindJSON decodes the request body into dst, rendering the structured 400
// response itself when the payload is malformed or fails validation.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return false
	}
	return true
}

func bindingErrorBody(err error) gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[jsonFieldName(fe.Field())] = "failed validation on " + fe.Tag()
		}
		return gin.H{"error": "invalid input", "details": details}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return gin.H{"error": "invalid JSON payload"}
	}
	return gin.H{"error": err.Error()}
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	b := []byte(field)
	if 'A' <= b[0] && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

// renderError maps recoverable failures onto the API's error taxonomy. Every
// unclassified error becomes a logged generic 500.
func (s *Server) renderError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var upErr *sap.UpstreamError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": vErr.Fields})
	case repository.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, sap.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": sap.ErrNotConfigured.Error()})
	case errors.As(err, &upErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": upErr.Message})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
