package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	errs "useradmin/internal/errors"
	"useradmin/internal/model"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) DeleteBatch(ctx context.Context, ids []uint) ([]uint, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockUserService) SetStatus(ctx context.Context, id uint, status string) (*model.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SetStatusBatch(ctx context.Context, ids []uint, status string) ([]model.User, error) {
	args := m.Called(ctx, ids, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func newUserHandler(svc *MockUserService) *UserHandler {
	return NewUserHandler(svc, zap.NewNop().Sugar())
}

func TestUserHandler_List(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("List", mock.Anything).Return([]model.User{
		{ID: 2, Email: "b@example.com", Status: model.StatusActive},
		{ID: 1, Email: "a@example.com", Status: model.StatusBlocked},
	}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/users", "")

	assert.NoError(t, newUserHandler(mockSvc).List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var users []model.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
	assert.NotContains(t, rec.Body.String(), "password")
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Delete(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Delete", mock.Anything, uint(7)).Return(nil)

		c, rec := newTestContext(t, http.MethodDelete, "/users/7", "")
		c.SetPath("/users/:id")
		c.SetParamNames("id")
		c.SetParamValues("7")

		assert.NoError(t, newUserHandler(mockSvc).Delete(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "User successfully deleted")
		assert.Contains(t, rec.Body.String(), `"userId":7`)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Delete", mock.Anything, uint(99)).Return(errs.ErrUserNotFound)

		c, _ := newTestContext(t, http.MethodDelete, "/users/99", "")
		c.SetPath("/users/:id")
		c.SetParamNames("id")
		c.SetParamValues("99")

		err := newUserHandler(mockSvc).Delete(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		assert.Equal(t, "User not found", httpErr.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestUserHandler_DeleteBatch(t *testing.T) {
	t.Run("empty id list", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodPost, "/users/delete", `{"userIds":[]}`)

		err := newUserHandler(new(MockUserService)).DeleteBatch(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		assert.Equal(t, "Invalid userIds array", httpErr.Message)
	})

	t.Run("nothing matched", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("DeleteBatch", mock.Anything, []uint{8, 9}).Return(nil, errs.ErrNoUsersMatched)

		c, _ := newTestContext(t, http.MethodPost, "/users/delete", `{"userIds":[8,9]}`)

		err := newUserHandler(mockSvc).DeleteBatch(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		assert.Equal(t, "Users not found", httpErr.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("matched ids are returned", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("DeleteBatch", mock.Anything, []uint{1, 2}).Return([]uint{1}, nil)

		c, rec := newTestContext(t, http.MethodPost, "/users/delete", `{"userIds":[1,2]}`)

		assert.NoError(t, newUserHandler(mockSvc).DeleteBatch(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Users successfully deleted")
		assert.Contains(t, rec.Body.String(), `"userIds":[1]`)
		mockSvc.AssertExpectations(t)
	})
}

func TestUserHandler_BlockUnblock(t *testing.T) {
	t.Run("block single", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("SetStatus", mock.Anything, uint(3), model.StatusBlocked).Return(&model.User{
			ID:     3,
			Status: model.StatusBlocked,
		}, nil)

		c, rec := newTestContext(t, http.MethodPatch, "/users/3/block", "")
		c.SetPath("/users/:id/block")
		c.SetParamNames("id")
		c.SetParamValues("3")

		assert.NoError(t, newUserHandler(mockSvc).Block(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "User successfully blocked")
		assert.Contains(t, rec.Body.String(), `"status":"blocked"`)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unblock single missing user", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("SetStatus", mock.Anything, uint(99), model.StatusActive).Return(nil, errs.ErrUserNotFound)

		c, _ := newTestContext(t, http.MethodPatch, "/users/99/unblock", "")
		c.SetPath("/users/:id/unblock")
		c.SetParamNames("id")
		c.SetParamValues("99")

		err := newUserHandler(mockSvc).Unblock(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		assert.Equal(t, "User not found", httpErr.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("batch block with empty list", func(t *testing.T) {
		c, _ := newTestContext(t, http.MethodPatch, "/users/block", `{}`)

		err := newUserHandler(new(MockUserService)).BlockBatch(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		assert.Equal(t, "No users selected to block", httpErr.Message)
	})

	t.Run("batch unblock best effort", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("SetStatusBatch", mock.Anything, []uint{1, 2}, model.StatusActive).Return([]model.User{
			{ID: 1, Status: model.StatusActive},
		}, nil)

		c, rec := newTestContext(t, http.MethodPatch, "/users/unblock", `{"userIds":[1,2]}`)

		assert.NoError(t, newUserHandler(mockSvc).UnblockBatch(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Users successfully unblocked")
		mockSvc.AssertExpectations(t)
	})
}
