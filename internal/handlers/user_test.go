package handlers

import (
	"net/http"
	"testing"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/middleware"
	"github.com/v-tox/api-yamdb/internal/models"

	"github.com/gin-gonic/gin"
)

// 非管理员 PATCH /users/me 提交 role 被静默忽略，其余字段生效
func TestUpdateMeRolePinned(t *testing.T) {
	setupTestDB(t)
	h := NewUserHandler()

	user := models.User{Username: "carol", Email: "carol@example.com", Role: models.RoleUser}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	c, w := jsonContext(t, http.MethodPatch, "/api/v1/users/me",
		gin.H{"role": "admin", "bio": "hello"})
	c.Set(middleware.CheckUserKey, &user)
	h.UpdateMe(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var got models.User
	db.DB.First(&got, user.ID)
	if got.Role != models.RoleUser {
		t.Errorf("role = %q, must stay %q", got.Role, models.RoleUser)
	}
	if got.Bio != "hello" {
		t.Errorf("bio = %q, want %q", got.Bio, "hello")
	}
}

// 管理员 PATCH /users/me 可以改自己的角色
func TestUpdateMeAdminSetsRole(t *testing.T) {
	setupTestDB(t)
	h := NewUserHandler()

	admin := models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
	if err := db.DB.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	c, w := jsonContext(t, http.MethodPatch, "/api/v1/users/me",
		gin.H{"role": models.RoleModerator})
	c.Set(middleware.CheckUserKey, &admin)
	h.UpdateMe(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var got models.User
	db.DB.First(&got, admin.ID)
	if got.Role != models.RoleModerator {
		t.Errorf("role = %q, want %q", got.Role, models.RoleModerator)
	}
}

// me 不是可删除的资源名
func TestDeleteMeNotAllowed(t *testing.T) {
	setupTestDB(t)
	h := NewUserHandler()

	admin := models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
	if err := db.DB.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	c, w := testContext(t, "/api/v1/users/me")
	c.Request.Method = http.MethodDelete
	c.Params = gin.Params{{Key: "username", Value: "me"}}
	c.Set(middleware.CheckUserKey, &admin)
	h.Delete(c)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
