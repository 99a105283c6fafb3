package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"useradmin/internal/auth"
	"useradmin/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log *zap.Logger,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(log))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes: these establish identity, so they sit outside the gate.
	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Administrative routes. Any valid bearer token grants access; there is
	// no role check beyond authentication.
	users := e.Group("/users", AuthGate(jwtService))
	users.GET("", userHandler.List)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/delete", userHandler.DeleteBatch)
	users.PATCH("/:id/block", userHandler.Block)
	users.PATCH("/block", userHandler.BlockBatch)
	users.PATCH("/:id/unblock", userHandler.Unblock)
	users.PATCH("/unblock", userHandler.UnblockBatch)
}

// AuthGate verifies the Authorization bearer token and attaches the decoded
// claims to the request context. A missing header or token segment is a 401;
// a token that is present but fails verification is a 403.
func AuthGate(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  auth.ContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, auth.ErrInvalidToken) {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid token.")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. Token is missing.")
		},
	})
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if claims := auth.ClaimsFromContext(c); claims != nil {
				fields = append(fields, zap.Uint("user_id", claims.UserID))
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
