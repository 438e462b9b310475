package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/handler"
	"taskflow/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	evaluationHandler *handler.EvaluationHandler,
	notificationHandler *handler.NotificationHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes (require a valid, non-revoked bearer token)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
		}),
		handler.CurrentActor(authService),
	)

	// Auth routes
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/profile", authHandler.Profile)
	secured.PUT("/auth/profile", authHandler.UpdateProfile)
	secured.GET("/auth/employees", authHandler.Employees)

	// Task routes
	secured.GET("/tasks", taskHandler.List)
	secured.POST("/tasks", taskHandler.Create)
	secured.GET("/tasks/statistics", taskHandler.Statistics)
	secured.GET("/tasks/evaluations", evaluationHandler.List)
	secured.POST("/tasks/evaluations", evaluationHandler.Create)
	secured.GET("/tasks/:id", taskHandler.Get)
	secured.PUT("/tasks/:id", taskHandler.Update)
	secured.DELETE("/tasks/:id", taskHandler.Delete)

	// Notification routes
	secured.GET("/notifications", notificationHandler.List)
	secured.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	secured.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	secured.DELETE("/notifications/:id", notificationHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
