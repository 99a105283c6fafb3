package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"useradmin/internal/auth"
	errs "useradmin/internal/errors"
	"useradmin/internal/model"
	"useradmin/internal/service"
)

// UserHandler handles the administrative user endpoints. All of them sit
// behind the auth gate; any valid bearer token grants access.
type UserHandler struct {
	svc service.UserService
	log *zap.SugaredLogger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// BatchRequest carries the id list for batch delete/block/unblock.
type BatchRequest struct {
	UserIDs []uint `json:"userIds"`
}

// List godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching users")
	}
	return c.JSON(http.StatusOK, users)
}

// Delete godoc
// @Summary Delete a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting user")
	}

	h.log.Infow("user deleted", "user_id", id, "by", actorID(c))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User successfully deleted",
		"userId":  id,
	})
}

// DeleteBatch godoc
// @Summary Delete users by id list
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchRequest true "User ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/delete [post]
func (h *UserHandler) DeleteBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil || len(req.UserIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid userIds array")
	}

	deleted, err := h.svc.DeleteBatch(c.Request().Context(), req.UserIDs)
	if err != nil {
		if errors.Is(err, errs.ErrNoUsersMatched) {
			return echo.NewHTTPError(http.StatusNotFound, "Users not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting users")
	}

	h.log.Infow("users deleted", "user_ids", deleted, "by", actorID(c))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Users successfully deleted",
		"userIds": deleted,
	})
}

// Block godoc
// @Summary Block a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id}/block [patch]
func (h *UserHandler) Block(c echo.Context) error {
	return h.setStatus(c, model.StatusBlocked, "block")
}

// Unblock godoc
// @Summary Unblock a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id}/unblock [patch]
func (h *UserHandler) Unblock(c echo.Context) error {
	return h.setStatus(c, model.StatusActive, "unblock")
}

// BlockBatch godoc
// @Summary Block users by id list
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchRequest true "User ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/block [patch]
func (h *UserHandler) BlockBatch(c echo.Context) error {
	return h.setStatusBatch(c, model.StatusBlocked, "block")
}

// UnblockBatch godoc
// @Summary Unblock users by id list
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchRequest true "User ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/unblock [patch]
func (h *UserHandler) UnblockBatch(c echo.Context) error {
	return h.setStatusBatch(c, model.StatusActive, "unblock")
}

func (h *UserHandler) setStatus(c echo.Context, status, verb string) error {
	id, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	user, err := h.svc.SetStatus(c.Request().Context(), id, status)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error "+verb+"ing user")
	}

	h.log.Infow("user status changed", "user_id", id, "status", status, "by", actorID(c))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User successfully " + verb + "ed",
		"user":    user,
	})
}

func (h *UserHandler) setStatusBatch(c echo.Context, status, verb string) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil || len(req.UserIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No users selected to "+verb)
	}

	users, err := h.svc.SetStatusBatch(c.Request().Context(), req.UserIDs, status)
	if err != nil {
		if errors.Is(err, errs.ErrNoUsersMatched) {
			return echo.NewHTTPError(http.StatusNotFound, "No users found with the provided IDs")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error "+verb+"ing users")
	}

	h.log.Infow("users status changed", "count", len(users), "status", status, "by", actorID(c))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Users successfully " + verb + "ed",
		"users":   users,
	})
}

func userID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func actorID(c echo.Context) uint {
	if claims := auth.ClaimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return 0
}
