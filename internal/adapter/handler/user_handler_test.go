package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/andremq/user-accounts-backend/internal/adapter/handler"
	"github.com/andremq/user-accounts-backend/internal/domain"
	"github.com/andremq/user-accounts-backend/internal/domain/entity"
	"github.com/andremq/user-accounts-backend/internal/mocks"
	"github.com/andremq/user-accounts-backend/internal/pkg/validation"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterPasswordRule())
	return gin.New()
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("creates user successfully", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.POST("/users", h.Create)

		created := &entity.User{
			EntityID: "0123456789abcdef0123456789abcdef",
			Name:     "Alice",
			Username: "alice",
			Email:    "alice@example.com",
		}
		userSvc.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(created, nil)

		body := `{"name":"Alice","username":"alice","email":"alice@example.com","password":"Abc123!!"}`
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, created.EntityID, resp["entityId"])
		assert.Equal(t, "Alice", resp["name"])
		assert.Equal(t, "alice", resp["username"])
		assert.Equal(t, "alice@example.com", resp["email"])
		assert.NotContains(t, resp, "password")
	})

	t.Run("returns 409 when email already exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.POST("/users", h.Create)

		userSvc.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			Return(nil, &domain.UserAlreadyExistsError{Email: "alice@example.com"})

		body := `{"name":"Alice","username":"alice","email":"alice@example.com","password":"Abc123!!"}`
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "USER_EXISTS", resp["code"])
		assert.Contains(t, resp["message"], "alice@example.com")
	})

	t.Run("returns 409 when username is taken", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.POST("/users", h.Create)

		userSvc.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			Return(nil, &domain.UsernameTakenError{Username: "alice"})

		body := `{"name":"Alice","username":"alice","email":"alice@example.com","password":"Abc123!!"}`
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "USERNAME_TAKEN", resp["code"])
	})

	t.Run("returns 400 with field violations for invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.POST("/users", h.Create)

		// username too short, email malformed, password all lowercase
		body := `{"name":"Alice","username":"ab","email":"not-an-email","password":"abcdefgh"}`
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "VALIDATION_ERROR", resp["code"])

		violations, ok := resp["errors"].([]any)
		require.True(t, ok)
		require.Len(t, violations, 3)

		fields := make([]string, 0, len(violations))
		for _, v := range violations {
			fields = append(fields, v.(map[string]any)["field"].(string))
		}
		assert.ElementsMatch(t, []string{"username", "email", "password"}, fields)
	})

	t.Run("returns 400 for malformed json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.POST("/users", h.Create)

		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "BAD_REQUEST", resp["code"])
	})
}

func TestUserHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userSvc := mocks.NewMockUserService(ctrl)
	h := handler.NewUserHandler(userSvc)

	router := setupRouter(t)
	router.GET("/users", h.List)

	userSvc.EXPECT().List(gomock.Any()).Return([]entity.User{
		{EntityID: "id1", Name: "Alice", Username: "alice", Email: "alice@example.com"},
		{EntityID: "id2", Name: "Bob", Username: "bob99", Email: "bob@example.com"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "id1", resp[0]["entityId"])
	assert.Equal(t, "id2", resp[1]["entityId"])
	assert.NotContains(t, resp[0], "password")
}

func TestUserHandler_Get(t *testing.T) {
	t.Run("returns user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.GET("/users/:id", h.Get)

		userSvc.EXPECT().FindByEntityID(gomock.Any(), "id1").
			Return(&entity.User{EntityID: "id1", Name: "Alice", Username: "alice", Email: "alice@example.com"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/users/id1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "id1", resp["entityId"])
	})

	t.Run("returns 404 when user does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.GET("/users/:id", h.Get)

		userSvc.EXPECT().FindByEntityID(gomock.Any(), "missing").
			Return(nil, &domain.UserNotFoundError{EntityID: "missing"})

		req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "USER_NOT_FOUND", resp["code"])
		assert.Contains(t, resp["message"], "missing")
	})
}

func TestUserHandler_Update(t *testing.T) {
	t.Run("updates user successfully", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.PATCH("/users/:id", h.Update)

		updated := &entity.User{EntityID: "id1", Name: "Alice B", Username: "aliceb", Email: "aliceb@example.com"}
		userSvc.EXPECT().UpdateUser(gomock.Any(), "id1", gomock.Any()).Return(updated, nil)

		body := `{"name":"Alice B","username":"aliceb","email":"aliceb@example.com"}`
		req := httptest.NewRequest(http.MethodPatch, "/users/id1", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "Alice B", resp["name"])
		assert.Equal(t, "aliceb", resp["username"])
	})

	t.Run("returns 404 when user does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.PATCH("/users/:id", h.Update)

		userSvc.EXPECT().UpdateUser(gomock.Any(), "missing", gomock.Any()).
			Return(nil, &domain.UserNotFoundError{EntityID: "missing"})

		body := `{"name":"Alice","username":"alice","email":"alice@example.com"}`
		req := httptest.NewRequest(http.MethodPatch, "/users/missing", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_Delete(t *testing.T) {
	t.Run("deletes user successfully", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.DELETE("/users/:id", h.Delete)

		userSvc.EXPECT().DeleteUser(gomock.Any(), "id1").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/users/id1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("returns 404 when user does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userSvc := mocks.NewMockUserService(ctrl)
		h := handler.NewUserHandler(userSvc)

		router := setupRouter(t)
		router.DELETE("/users/:id", h.Delete)

		userSvc.EXPECT().DeleteUser(gomock.Any(), "missing").
			Return(&domain.UserNotFoundError{EntityID: "missing"})

		req := httptest.NewRequest(http.MethodDelete, "/users/missing", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
