package services

import (
	"os"
	"sync"
	"testing"
	"time"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte("test-secret"), ttl: ttl}
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestTokenService(time.Hour)

	token, err := s.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := s.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Parse returned user %d, want 42", userID)
	}
}

func TestTokenExpired(t *testing.T) {
	s := newTestTokenService(-time.Minute)

	token, err := s.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := s.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	a := newTestTokenService(time.Hour)
	b := &TokenService{secret: []byte("other-secret"), ttl: time.Hour}

	token, err := a.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := b.Parse(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestTokenGarbage(t *testing.T) {
	s := newTestTokenService(time.Hour)
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := s.Parse(bad); err == nil {
			t.Errorf("Parse(%q) = nil error, want failure", bad)
		}
	}
}

func TestGetTokenServiceSingleton(t *testing.T) {
	os.Setenv("TOKEN_SECRET", "singleton-secret")
	a := GetTokenService()
	if a == nil {
		t.Fatal("GetTokenService returned nil")
	}
	if b := GetTokenService(); a != b {
		t.Error("GetTokenService must return the same instance")
	}
}

// 并发首次获取必须得到同一个实例
func TestGetTokenServiceConcurrent(t *testing.T) {
	results := make(chan *TokenService, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- GetTokenService()
		}()
	}
	wg.Wait()
	close(results)

	first := GetTokenService()
	for s := range results {
		if s != first {
			t.Fatal("concurrent GetTokenService returned different instances")
		}
	}
}
