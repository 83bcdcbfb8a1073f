package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/v-tox/api-yamdb/internal/models"

	"github.com/gin-gonic/gin"
)

func guardContext(t *testing.T, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	if user != nil {
		c.Set(CheckUserKey, user)
	}
	return c, w
}

func TestAuthRequiredAnonymous(t *testing.T) {
	c, w := guardContext(t, nil)

	AuthRequired()(c)

	if !c.IsAborted() {
		t.Error("anonymous request must be aborted")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredLoggedIn(t *testing.T) {
	c, _ := guardContext(t, &models.User{Username: "reader", Role: models.RoleUser})

	AuthRequired()(c)

	if c.IsAborted() {
		t.Error("logged-in request must pass")
	}
}

func TestAdminRequired(t *testing.T) {
	cases := []struct {
		name     string
		user     *models.User
		wantCode int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain user", &models.User{Role: models.RoleUser}, http.StatusForbidden},
		{"moderator", &models.User{Role: models.RoleModerator}, http.StatusForbidden},
		{"admin", &models.User{Role: models.RoleAdmin}, http.StatusOK},
		{"superuser", &models.User{Role: models.RoleUser, IsSuperuser: true}, http.StatusOK},
	}
	for _, tc := range cases {
		c, w := guardContext(t, tc.user)

		AdminRequired()(c)

		if tc.wantCode == http.StatusOK {
			if c.IsAborted() {
				t.Errorf("%s: must pass, got %d", tc.name, w.Code)
			}
			continue
		}
		if !c.IsAborted() || w.Code != tc.wantCode {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.wantCode)
		}
	}
}

// 令牌非法时 LoadUser 不应中断请求，也不应挂载用户
func TestLoadUserMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Token abc", "Bearer", "Bearer not-a-jwt"} {
		c, _ := guardContext(t, nil)
		c.Request.Header.Set("Authorization", header)

		LoadUser()(c)

		if c.IsAborted() {
			t.Errorf("header %q: request must not be aborted", header)
		}
		if _, exists := c.Get(CheckUserKey); exists {
			t.Errorf("header %q: no user must be attached", header)
		}
	}
}
