package service

import (
	"testing"
	"time"

	"pipeline_portal_backend/platform/apperr"
	"pipeline_portal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type testAuthConfig struct {
	secret string
	ttl    time.Duration
	user   string
	hash   string
}

func (c testAuthConfig) GetJWTAccessSecret() string      { return c.secret }
func (c testAuthConfig) GetSessionTTL() time.Duration    { return c.ttl }
func (c testAuthConfig) GetOperatorUser() string         { return c.user }
func (c testAuthConfig) GetOperatorPasswordHash() string { return c.hash }

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg := testAuthConfig{
		secret: "test-secret",
		ttl:    time.Hour,
		user:   "operator",
		hash:   string(hash),
	}
	return New(cfg, logger.New("development"))
}

func TestLogin_Success(t *testing.T) {
	svc := newTestService(t, "correct horse")

	token, expiresAt, err := svc.Login("operator", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(expiresAt); until < 55*time.Minute || until > time.Hour {
		t.Errorf("expiry %v not within session TTL", until)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "operator" {
		t.Errorf("sub = %v, want operator", claims["sub"])
	}
	if claims["type"] != "session" {
		t.Errorf("type = %v, want session", claims["type"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t, "correct horse")

	_, _, err := svc.Login("operator", "battery staple")
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("kind = %v, want unauthorized", apperr.GetKind(err))
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newTestService(t, "correct horse")

	_, _, err := svc.Login("someone-else", "correct horse")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("kind = %v, want unauthorized", apperr.GetKind(err))
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	cfg := testAuthConfig{secret: "s", ttl: time.Hour, user: "operator"}
	svc := New(cfg, logger.New("development"))

	_, _, err := svc.Login("operator", "anything")
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Errorf("kind = %v, want internal", apperr.GetKind(err))
	}
}
