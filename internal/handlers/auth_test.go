package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/models"
	"github.com/v-tox/api-yamdb/internal/services"

	"github.com/gin-gonic/gin"
)

// 同一对 username+email 重复注册只换码，不建新账号
func TestSignupReissuesCodeForSamePair(t *testing.T) {
	setupTestDB(t)
	h := NewAuthHandler()

	payload := gin.H{"username": "bob", "email": "bob@example.com"}

	c, w := jsonContext(t, http.MethodPost, "/api/v1/auth/signup", payload)
	h.Signup(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first signup status = %d, body %s", w.Code, w.Body.String())
	}

	var first models.User
	if err := db.DB.Where("username = ?", "bob").First(&first).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if first.ConfirmationCodeHash == "" || first.CodeIssuedAt == nil {
		t.Fatal("confirmation code must be issued on signup")
	}

	c, w = jsonContext(t, http.MethodPost, "/api/v1/auth/signup", payload)
	h.Signup(c)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat signup status = %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	db.DB.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}

	var second models.User
	db.DB.Where("username = ?", "bob").First(&second)
	if second.ConfirmationCodeHash == first.ConfirmationCodeHash {
		t.Error("repeat signup must issue a fresh code")
	}
}

// username 或 email 单边被占用时按对应字段报错
func TestSignupPartialCollision(t *testing.T) {
	setupTestDB(t)
	h := NewAuthHandler()

	c, w := jsonContext(t, http.MethodPost, "/api/v1/auth/signup",
		gin.H{"username": "bob", "email": "bob@example.com"})
	h.Signup(c)
	if w.Code != http.StatusOK {
		t.Fatalf("seed signup status = %d, body %s", w.Code, w.Body.String())
	}

	cases := []struct {
		payload gin.H
		field   string
	}{
		{gin.H{"username": "bob", "email": "other@example.com"}, "username"},
		{gin.H{"username": "alice", "email": "bob@example.com"}, "email"},
	}
	for _, tc := range cases {
		c, w := jsonContext(t, http.MethodPost, "/api/v1/auth/signup", tc.payload)
		h.Signup(c)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s collision: status = %d, want 400", tc.field, w.Code)
			continue
		}
		var body map[string][]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if _, ok := body[tc.field]; !ok {
			t.Errorf("expected %q key in error body, got %v", tc.field, body)
		}
	}
}

// 确认码兑换成功后失效，不能重复使用
func TestTokenSingleUse(t *testing.T) {
	setupTestDB(t)
	h := NewAuthHandler()

	code, hash, err := services.GenerateConfirmationCode()
	if err != nil {
		t.Fatalf("GenerateConfirmationCode failed: %v", err)
	}
	now := time.Now()
	user := models.User{
		Username:             "bob",
		Email:                "bob@example.com",
		Role:                 models.RoleUser,
		ConfirmationCodeHash: hash,
		CodeIssuedAt:         &now,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	payload := gin.H{"username": "bob", "confirmation_code": code}

	c, w := jsonContext(t, http.MethodPost, "/api/v1/auth/token", payload)
	h.Token(c)
	if w.Code != http.StatusOK {
		t.Fatalf("token exchange status = %d, body %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["token"] == "" {
		t.Fatal("expected a token in the response")
	}

	var got models.User
	db.DB.First(&got, user.ID)
	if got.ConfirmationCodeHash != "" || got.CodeIssuedAt != nil {
		t.Error("confirmation code must be cleared after a successful exchange")
	}

	c, w = jsonContext(t, http.MethodPost, "/api/v1/auth/token", payload)
	h.Token(c)
	if w.Code != http.StatusBadRequest {
		t.Errorf("reused code status = %d, want 400", w.Code)
	}
}

func TestTokenUnknownUser(t *testing.T) {
	setupTestDB(t)
	h := NewAuthHandler()

	c, w := jsonContext(t, http.MethodPost, "/api/v1/auth/token",
		gin.H{"username": "ghost", "confirmation_code": "123456"})
	h.Token(c)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", w.Code)
	}
}
