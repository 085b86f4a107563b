package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	apperrors "taskpad/internal/errors"
	"taskpad/internal/handler"
	"taskpad/internal/model"
	"taskpad/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	itemHandler *handler.ItemHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/token", authHandler.Token)
	e.POST("/users/", authHandler.Register)

	// Secured routes: bearer token → fresh identity lookup → active gate.
	// All token defects surface as a uniform 401.
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey: handler.IdentityContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.ResolveIdentity(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Missing, malformed, expired and forged tokens all surface as
			// the same 401 so the response leaks nothing about the defect.
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "could not validate credentials",
				Code:  "INVALID_TOKEN",
			})
		},
	}), requireActive)

	secured.GET("/users/me/items/", itemHandler.ListMine)
	secured.POST("/users/:user_id/items/", itemHandler.Create)
	secured.DELETE("/users/:user_id/items/delete", itemHandler.Delete)
	secured.PUT("/users/:user_id/items/finish", itemHandler.Finish)
	secured.GET("/items/", itemHandler.ListAll)
}

// requireActive rejects resolved identities whose account is disabled. It
// runs after identity resolution as a separate gate, so the public routes
// above never pay for it.
func requireActive(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get(handler.IdentityContextKey).(*model.User)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		if !user.IsActive {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUserInactive)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
