package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarspace/user-service/internal/auth"
	"github.com/scholarspace/user-service/internal/models"
	"github.com/scholarspace/user-service/internal/services"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withIdentity(req *http.Request, identity *auth.Identity) *http.Request {
	return req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
}

func TestUserHandler_Get(t *testing.T) {
	svc := &MockUserService{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			if id != 42 {
				return nil, models.ErrNotFound
			}
			return &models.User{ID: 42, Email: "alice@example.com", Name: "Alice Example", Role: models.RoleStudent}, nil
		},
	}
	h := NewUserHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/42", nil), "id", "42")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "alice@example.com", user.Email)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/999", nil), "id", "999")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/abc", nil), "id", "abc")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_List_PassesPagination(t *testing.T) {
	var gotLimit, gotOffset int
	svc := &MockUserService{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			gotLimit, gotOffset = limit, offset
			return []*models.User{{ID: 1}, {ID: 2}}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users?limit=10&offset=20", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
}

func TestUserHandler_ListByRole(t *testing.T) {
	var gotRole models.Role
	svc := &MockUserService{
		ListByRoleFunc: func(ctx context.Context, role models.Role) ([]*models.User, error) {
			gotRole = role
			return []*models.User{{ID: 7, Role: models.RoleInstructor}}, nil
		},
	}
	h := NewUserHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/role/teacher", nil), "role", "teacher")
	rec := httptest.NewRecorder()
	h.ListByRole(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleInstructor, gotRole)

	var users []*models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, int64(7), users[0].ID)
}

func TestUserHandler_ListByRole_InvalidRole(t *testing.T) {
	h := NewUserHandler(&MockUserService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/role/superuser", nil), "role", "superuser")
	rec := httptest.NewRecorder()
	h.ListByRole(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_Profile(t *testing.T) {
	svc := &MockUserService{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, Name: "Alice Example"}, nil
		},
	}
	h := NewUserHandler(svc)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/users/profile", nil),
		&auth.Identity{Email: "alice@example.com", UserID: 1, Authority: "ROLE_STUDENT"})
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUserHandler_Profile_Anonymous(t *testing.T) {
	h := NewUserHandler(&MockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_UpdateProfile_PartialFields(t *testing.T) {
	var got services.UpdateProfileParams
	svc := &MockUserService{
		UpdateProfileFunc: func(ctx context.Context, id int64, params services.UpdateProfileParams) (*models.User, error) {
			got = params
			return &models.User{ID: id, Name: "Alice Example", Phone: "555-0199"}, nil
		},
	}
	h := NewUserHandler(svc)

	body := `{"phone": "555-0199", "dateOfBirth": "1995-05-15"}`
	req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/users/profile", strings.NewReader(body)),
		&auth.Identity{Email: "alice@example.com", UserID: 1, Authority: "ROLE_STUDENT"})
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Name)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "555-0199", *got.Phone)
	require.NotNil(t, got.DateOfBirth)
	assert.Equal(t, "1995-05-15", got.DateOfBirth.Format("2006-01-02"))
}

func TestUserHandler_Update_RoleChange(t *testing.T) {
	var changedTo models.Role
	svc := &MockUserService{
		UpdateProfileFunc: func(ctx context.Context, id int64, params services.UpdateProfileParams) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleStudent}, nil
		},
		ChangeRoleFunc: func(ctx context.Context, id int64, role models.Role) (*models.User, error) {
			changedTo = role
			return &models.User{ID: id, Role: role}, nil
		},
	}
	h := NewUserHandler(svc)

	body := `{"role": "INSTRUCTOR"}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/users/3", strings.NewReader(body)), "id", "3")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleInstructor, changedTo)
}

func TestUserHandler_Update_InvalidRole(t *testing.T) {
	svc := &MockUserService{
		UpdateProfileFunc: func(ctx context.Context, id int64, params services.UpdateProfileParams) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}
	h := NewUserHandler(svc)

	body := `{"role": "SUPERUSER"}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/users/3", strings.NewReader(body)), "id", "3")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_ActivateDeactivate(t *testing.T) {
	var calls []bool
	svc := &MockUserService{
		SetActiveFunc: func(ctx context.Context, id int64, active bool) error {
			calls = append(calls, active)
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/users/4/deactivate", nil), "id", "4")
	rec := httptest.NewRecorder()
	h.Deactivate(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = withURLParam(httptest.NewRequest(http.MethodPut, "/api/users/4/activate", nil), "id", "4")
	rec = httptest.NewRecorder()
	h.Activate(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []bool{false, true}, calls)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	svc := &MockUserService{
		ChangePasswordFunc: func(ctx context.Context, id int64, oldPassword, newPassword string) error {
			assert.Equal(t, int64(1), id)
			assert.Equal(t, "oldpw123", oldPassword)
			return nil
		},
	}
	h := NewUserHandler(svc)

	body := `{"oldPassword": "oldpw123", "newPassword": "newpassword1"}`
	req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/users/change-password", strings.NewReader(body)),
		&auth.Identity{Email: "alice@example.com", UserID: 1, Authority: "ROLE_STUDENT"})
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	svc := &MockUserService{
		ChangePasswordFunc: func(ctx context.Context, id int64, oldPassword, newPassword string) error {
			return models.ErrInvalidCredential
		},
	}
	h := NewUserHandler(svc)

	body := `{"oldPassword": "wrong", "newPassword": "newpassword1"}`
	req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/users/change-password", strings.NewReader(body)),
		&auth.Identity{Email: "alice@example.com", UserID: 1, Authority: "ROLE_STUDENT"})
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
