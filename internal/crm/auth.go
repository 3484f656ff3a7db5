package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pipeline_portal_backend/internal/crm/transport"
	"pipeline_portal_backend/platform/apperr"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	accessTokenKey  = "crm:access_token"
	refreshTokenKey = "crm:refresh_token"
	// expiryBuffer refreshes tokens ahead of their actual expiry.
	expiryBuffer = 5 * time.Minute
)

// TokenProvider returns an authorization header value on demand.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider serves a fixed private-integration token.
type StaticTokenProvider struct {
	token string
}

func (p StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if p.token == "" {
		return "", apperr.Unauthorized("no crm token configured")
	}
	return bearer(p.token), nil
}

// OAuthTokenProvider serves OAuth2 access tokens, refreshing them through
// the CRM token endpoint and caching them in Redis so concurrent processes
// (api server, scheduler, one-shot runs) share one token.
type OAuthTokenProvider struct {
	httpClient   *http.Client
	rdb          *redis.Client
	refreshURL   string
	userAgent    string
	clientID     string
	clientSecret string
	fallback     string
	log          *logger.Logger
}

// NewTokenProvider picks the OAuth provider when client credentials are
// configured, otherwise the static private-integration token.
func NewTokenProvider(cfg config.CRMConfig, rdb *redis.Client, log *logger.Logger) TokenProvider {
	if cfg.GetCRMClientID() == "" || cfg.GetCRMClientSecret() == "" || rdb == nil {
		return StaticTokenProvider{token: cfg.GetCRMStaticToken()}
	}
	return &OAuthTokenProvider{
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		rdb:          rdb,
		refreshURL:   cfg.GetCRMBaseURL() + "/oauth/token",
		userAgent:    cfg.GetCRMUserAgent(),
		clientID:     cfg.GetCRMClientID(),
		clientSecret: cfg.GetCRMClientSecret(),
		fallback:     cfg.GetCRMStaticToken(),
		log:          log,
	}
}

// Token returns a valid bearer token, refreshing when the cached one has
// expired. Falls back to the static token when no refresh token is stored.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	access, err := p.rdb.Get(ctx, accessTokenKey).Result()
	if err == nil && access != "" {
		return bearer(access), nil
	}
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("read cached token: %w", err)
	}

	refresh, err := p.rdb.Get(ctx, refreshTokenKey).Result()
	if err == redis.Nil || refresh == "" {
		if p.fallback != "" {
			return bearer(p.fallback), nil
		}
		return "", apperr.Unauthorized("no crm refresh token stored; run oauth setup")
	}
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}

	return p.refresh(ctx, refresh)
}

func (p *OAuthTokenProvider) refresh(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(transport.TokenRequest{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.refreshURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "token refresh failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Unauthorized(fmt.Sprintf("token refresh rejected: %d", resp.StatusCode))
	}

	var tokens transport.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return "", err
	}

	ttl := time.Duration(tokens.ExpiresIn)*time.Second - expiryBuffer
	if ttl < time.Minute {
		ttl = time.Minute
	}
	if err := p.rdb.Set(ctx, accessTokenKey, tokens.AccessToken, ttl).Err(); err != nil {
		p.log.Warn("failed to cache access token", "error", err)
	}
	if tokens.RefreshToken != "" {
		// Refresh tokens rotate; persist the new one without expiry.
		if err := p.rdb.Set(ctx, refreshTokenKey, tokens.RefreshToken, 0).Err(); err != nil {
			p.log.Warn("failed to store rotated refresh token", "error", err)
		}
	}

	p.log.Info("crm access token refreshed")
	return bearer(tokens.AccessToken), nil
}

func bearer(token string) string {
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}
