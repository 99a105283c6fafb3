package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	errs "useradmin/internal/errors"
	"useradmin/internal/service"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var registerMessages = map[string]string{
	"name":     "Name is required",
	"surname":  "Last name is required",
	"email":    "Valid email is required",
	"password": "Password must be at least 1 characters",
}

var loginMessages = map[string]string{
	"email":    "Valid email is required",
	"password": "Password is required",
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ValidationResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ValidationResponse{Errors: fieldErrors(err, registerMessages)})
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Surname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":  user,
		"token": token,
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ValidationResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs.ValidationResponse{Errors: fieldErrors(err, loginMessages)})
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrAccountBlocked):
			return echo.NewHTTPError(http.StatusForbidden, "Your account is blocked. Contact support.")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to login")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// fieldErrors turns validator failures into the field-level 400 error list,
// reporting the request body paths rather than Go struct field names.
func fieldErrors(err error, messages map[string]string) []errs.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []errs.FieldError{{Field: "body", Message: "Invalid request body"}}
	}
	out := make([]errs.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg, ok := messages[field]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out = append(out, errs.FieldError{Field: field, Message: msg})
	}
	return out
}
