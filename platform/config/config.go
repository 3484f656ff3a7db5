// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides HTTP server settings.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the operator login service.
type AuthServiceConfig interface {
	JWTConfig
	GetSessionTTL() time.Duration
	GetOperatorUser() string
	GetOperatorPasswordHash() string
}

// CRMConfig provides settings for the CRM API client and collectors.
type CRMConfig interface {
	GetCRMBaseURL() string
	GetCRMAPIVersion() string
	GetCRMUserAgent() string
	GetCRMLocationID() string
	GetCRMPipelineID() string
	GetCRMClientID() string
	GetCRMClientSecret() string
	GetCRMStaticToken() string
	GetCRMRateLimitRPS() float64
	GetCRMMaxConcurrent() int
	GetActiveStageMap() map[string]string
	GetInactiveStageMap() map[string]string
	GetCustomFieldMap() map[string]string
	GetStageID(stageName string) string
}

// DashboardConfig provides settings for the action board service.
type DashboardConfig interface {
	GetSendEmailFrom() string
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetRefreshCronSpec() string
}

// RedisConfig provides settings for redis-backed repositories.
type RedisConfig interface {
	GetRedisURL() string
}

// BlobConfig provides settings for the snapshot blob store.
type BlobConfig interface {
	GetBlobEndpoint() string
	GetBlobAccessKey() string
	GetBlobSecretKey() string
	GetBlobUseSSL() bool
	GetBlobBucket() string
	IsBlobEnabled() bool
}

// EnrichConfig provides settings for the enrichment engine run.
type EnrichConfig interface {
	GetEnrichMaxParallel() int
}

// =============================================================================
// Config struct and loading
// =============================================================================

// Config holds all application configuration, loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	JWTAccessSecret      string
	SessionTTL           time.Duration
	OperatorUser         string
	OperatorPasswordHash string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	CRMBaseURL       string
	CRMAPIVersion    string
	CRMUserAgent     string
	CRMLocationID    string
	CRMPipelineID    string
	CRMClientID      string
	CRMClientSecret  string
	CRMStaticToken   string
	CRMRateLimitRPS  float64
	CRMMaxConcurrent int

	ActiveStageMap   map[string]string
	InactiveStageMap map[string]string
	CustomFieldMap   map[string]string

	RedisURL        string
	AsynqQueue      string
	RefreshCronSpec string

	BlobEndpoint  string
	BlobAccessKey string
	BlobSecretKey string
	BlobUseSSL    bool
	BlobBucket    string

	SendEmailFrom string

	EnrichMaxParallel int
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	activeStages, err := parseStageMap(getEnv("CRM_ACTIVE_STAGES", "{}"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRM_ACTIVE_STAGES: %w", err)
	}
	inactiveStages, err := parseStageMap(getEnv("CRM_INACTIVE_STAGES", "{}"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRM_INACTIVE_STAGES: %w", err)
	}
	customFields, err := parseStageMap(getEnv("CRM_CUSTOM_FIELDS", "{}"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRM_CUSTOM_FIELDS: %w", err)
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		SessionTTL:           mustDuration(getEnv("SESSION_TTL", "12h")),
		OperatorUser:         getEnv("OPERATOR_USER", "operator"),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),

		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		CRMBaseURL:       getEnv("CRM_BASE_URL", "https://services.leadconnectorhq.com"),
		CRMAPIVersion:    getEnv("CRM_API_VERSION", "2021-07-28"),
		CRMUserAgent:     getEnv("CRM_USER_AGENT", "Pipeline-Portal/1.0"),
		CRMLocationID:    getEnv("CRM_LOCATION_ID", ""),
		CRMPipelineID:    getEnv("CRM_PIPELINE_ID", ""),
		CRMClientID:      getEnv("CRM_CLIENT_ID", ""),
		CRMClientSecret:  getEnv("CRM_CLIENT_SECRET", ""),
		CRMStaticToken:   getEnv("CRM_STATIC_TOKEN", ""),
		CRMRateLimitRPS:  mustFloat(getEnv("CRM_RATE_LIMIT_RPS", "5")),
		CRMMaxConcurrent: mustInt(getEnv("CRM_MAX_CONCURRENT", "3")),

		ActiveStageMap:   activeStages,
		InactiveStageMap: inactiveStages,
		CustomFieldMap:   customFields,

		RedisURL:        getEnv("REDIS_URL", ""),
		AsynqQueue:      getEnv("ASYNQ_QUEUE", "default"),
		RefreshCronSpec: getEnv("REFRESH_CRON", "*/30 * * * *"),

		BlobEndpoint:  getEnv("BLOB_ENDPOINT", ""),
		BlobAccessKey: getEnv("BLOB_ACCESS_KEY", ""),
		BlobSecretKey: getEnv("BLOB_SECRET_KEY", ""),
		BlobUseSSL:    strings.EqualFold(getEnv("BLOB_USE_SSL", "true"), "true"),
		BlobBucket:    getEnv("BLOB_BUCKET", "pipeline-snapshots"),

		SendEmailFrom: getEnv("SEND_EMAIL_FROM", ""),

		EnrichMaxParallel: mustInt(getEnv("ENRICH_MAX_PARALLEL", "8")),
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool         { return c.CORSAllowCreds }
func (c *Config) GetJWTAccessSecret() string      { return c.JWTAccessSecret }
func (c *Config) GetSessionTTL() time.Duration    { return c.SessionTTL }
func (c *Config) GetOperatorUser() string         { return c.OperatorUser }
func (c *Config) GetOperatorPasswordHash() string { return c.OperatorPasswordHash }

func (c *Config) GetCRMBaseURL() string       { return c.CRMBaseURL }
func (c *Config) GetCRMAPIVersion() string    { return c.CRMAPIVersion }
func (c *Config) GetCRMUserAgent() string     { return c.CRMUserAgent }
func (c *Config) GetCRMLocationID() string    { return c.CRMLocationID }
func (c *Config) GetCRMPipelineID() string    { return c.CRMPipelineID }
func (c *Config) GetCRMClientID() string      { return c.CRMClientID }
func (c *Config) GetCRMClientSecret() string  { return c.CRMClientSecret }
func (c *Config) GetCRMStaticToken() string   { return c.CRMStaticToken }
func (c *Config) GetCRMRateLimitRPS() float64 { return c.CRMRateLimitRPS }
func (c *Config) GetCRMMaxConcurrent() int    { return c.CRMMaxConcurrent }

func (c *Config) GetActiveStageMap() map[string]string   { return c.ActiveStageMap }
func (c *Config) GetInactiveStageMap() map[string]string { return c.InactiveStageMap }
func (c *Config) GetCustomFieldMap() map[string]string   { return c.CustomFieldMap }

// GetStageID resolves a stage name back to its pipeline stage ID.
// Returns an empty string when the name is not configured.
func (c *Config) GetStageID(stageName string) string {
	for id, name := range c.ActiveStageMap {
		if strings.EqualFold(name, stageName) {
			return id
		}
	}
	for id, name := range c.InactiveStageMap {
		if strings.EqualFold(name, stageName) {
			return id
		}
	}
	return ""
}

func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueue }
func (c *Config) GetRefreshCronSpec() string { return c.RefreshCronSpec }

func (c *Config) GetBlobEndpoint() string  { return c.BlobEndpoint }
func (c *Config) GetBlobAccessKey() string { return c.BlobAccessKey }
func (c *Config) GetBlobSecretKey() string { return c.BlobSecretKey }
func (c *Config) GetBlobUseSSL() bool      { return c.BlobUseSSL }
func (c *Config) GetBlobBucket() string    { return c.BlobBucket }
func (c *Config) IsBlobEnabled() bool      { return c.BlobEndpoint != "" }

func (c *Config) GetSendEmailFrom() string  { return c.SendEmailFrom }
func (c *Config) GetEnrichMaxParallel() int { return c.EnrichMaxParallel }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// parseStageMap decodes a JSON object of pipeline stage ID to stage name.
func parseStageMap(s string) (map[string]string, error) {
	m := map[string]string{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
