package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	usecase "user-resource-service/internal/usecase/user"
	pkgerrors "user-resource-service/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.CreateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*usecase.UpdateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UpdateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.DeleteUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteUserResponse), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	r.POST("/users", handler.CreateUser)
	r.GET("/users", handler.ListUsers)
	r.PUT("/users/:id", handler.UpdateUser)
	r.DELETE("/users/:id", handler.DeleteUser)
	return r, mockUsecase
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		id := uuid.New()

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Name: "Ann", Email: "ann@x.com"}).
			Return(&usecase.CreateUserResponse{ID: id}, nil)

		w := perform(r, http.MethodPost, "/users", `{"name":"Ann","email":"ann@x.com"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `"`+id.String()+`"`, w.Body.String())
	})

	t.Run("Empty Strings Accepted", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		id := uuid.New()

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{}).
			Return(&usecase.CreateUserResponse{ID: id}, nil)

		w := perform(r, http.MethodPost, "/users", `{"name":"","email":""}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := perform(r, http.MethodPost, "/users", "invalid json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Missing Field", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := perform(r, http.MethodPost, "/users", `{"name":"Ann"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError("failed to create user", errors.New("disk full")))

		w := perform(r, http.MethodPost, "/users", `{"name":"Ann","email":"ann@x.com"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "failed to create user: disk full", w.Body.String())
	})
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		id := uuid.New()

		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{
			Users: []usecase.User{{ID: id, Name: "Ann", Email: "ann@x.com"}},
		}, nil)

		w := perform(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp []UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []UserResponse{{ID: id, Name: "Ann", Email: "ann@x.com"}}, resp)
	})

	t.Run("Empty Is Array", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{}, nil)

		w := perform(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything).Return(nil, errors.New("connection refused"))

		w := perform(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "connection refused", w.Body.String())
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		id := uuid.New()

		mockUsecase.On("UpdateUser", mock.Anything, mock.MatchedBy(func(req usecase.UpdateUserRequest) bool {
			return req.ID == id && req.Name == nil && req.Email != nil && *req.Email == "ann2@x.com"
		})).Return(&usecase.UpdateUserResponse{
			User: usecase.User{ID: id, Name: "Ann", Email: "ann2@x.com"},
		}, nil)

		w := perform(r, http.MethodPut, "/users/"+id.String(), `{"email":"ann2@x.com"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, UserResponse{ID: id, Name: "Ann", Email: "ann2@x.com"}, resp)
	})

	t.Run("Null Fields Are Absent", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		id := uuid.New()

		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{ID: id}).
			Return(&usecase.UpdateUserResponse{User: usecase.User{ID: id}}, nil)

		w := perform(r, http.MethodPut, "/users/"+id.String(), `{"name":null}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		id := uuid.New()

		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewNotFoundError("user", ""))

		w := perform(r, http.MethodPut, "/users/"+id.String(), `{"name":"X"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Malformed ID", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := perform(r, http.MethodPut, "/users/not-a-uuid", `{"name":"X"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := perform(r, http.MethodPut, "/users/"+uuid.NewString(), "{")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).Return(nil, errors.New("deadlock detected"))

		w := perform(r, http.MethodPut, "/users/"+uuid.NewString(), `{"name":"X"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "deadlock detected", w.Body.String())
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		id := uuid.New()

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: id}).
			Return(&usecase.DeleteUserResponse{ID: id}, nil)

		w := perform(r, http.MethodDelete, "/users/"+id.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("DeleteUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewNotFoundError("user", ""))

		w := perform(r, http.MethodDelete, "/users/"+uuid.NewString(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Malformed ID", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := perform(r, http.MethodDelete, "/users/42", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUsecase.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})

	t.Run("Usecase Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("DeleteUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError("failed to delete user", errors.New("connection reset")))

		w := perform(r, http.MethodDelete, "/users/"+uuid.NewString(), "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "failed to delete user: connection reset", w.Body.String())
	})
}
