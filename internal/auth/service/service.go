// Package service implements operator authentication. The dashboard has a
// single operator account configured from the environment; sessions are
// short-lived signed tokens.
package service

import (
	"errors"
	"time"

	"pipeline_portal_backend/platform/apperr"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const sessionTokenType = "session"

type Service struct {
	cfg config.AuthServiceConfig
	log *logger.Logger
}

func New(cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

// Login verifies the operator credentials and issues a session token.
func (s *Service) Login(username, password string) (string, time.Time, error) {
	if s.cfg.GetOperatorPasswordHash() == "" {
		return "", time.Time{}, apperr.New(apperr.KindInternal, "auth not configured")
	}

	if username != s.cfg.GetOperatorUser() {
		s.log.AuthEvent("login", username, false, "unknown user")
		return "", time.Time{}, apperr.Wrap(apperr.KindUnauthorized, "invalid credentials", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.GetOperatorPasswordHash()), []byte(password)); err != nil {
		s.log.AuthEvent("login", username, false, "bad password")
		return "", time.Time{}, apperr.Wrap(apperr.KindUnauthorized, "invalid credentials", ErrInvalidCredentials)
	}

	expiresAt := time.Now().Add(s.cfg.GetSessionTTL())
	token, err := s.issueSession(username, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}

	s.log.AuthEvent("login", username, true, "")
	return token, expiresAt, nil
}

func (s *Service) issueSession(username string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"type": sessionTokenType,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "sign session token", err)
	}
	return signed, nil
}
