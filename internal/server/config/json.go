package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/screenwise/screenwise/internal/flagx"
	"github.com/screenwise/screenwise/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	Env                          string         `json:"env"`
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	RedisURL                     string         `json:"redis_url"`
	JWTAccessSecret              string         `json:"jwt_access_secret"`
	JWTRefreshSecret             string         `json:"jwt_refresh_secret"`
	JWTResetSecret               string         `json:"jwt_reset_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   timex.Duration `json:"reset_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	AuthRateLimit                int            `json:"auth_rate_limit"`
	RegisterRateLimit            int            `json:"register_rate_limit"`
	PasswordResetRateLimit       int            `json:"password_reset_rate_limit"`
	AuthRateWindow               timex.Duration `json:"auth_rate_window"`
	MailProvider                 string         `json:"mail_provider"`
	MailgunDomain                string         `json:"mailgun_domain"`
	MailgunAPIKey                string         `json:"mailgun_api_key"`
	MailFrom                     string         `json:"mail_from"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. Values present in the file replace
// the corresponding Config fields; zero values are skipped so the file can be
// partial. If the file cannot be read or contains invalid JSON, the function
// panics: a broken config file is a deployment error, not a runtime state.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.Env != "" {
		config.Env = c.Env
	}
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisURL != "" {
		config.RedisURL = c.RedisURL
	}
	if c.JWTAccessSecret != "" {
		config.JWTAccessSecret = c.JWTAccessSecret
	}
	if c.JWTRefreshSecret != "" {
		config.JWTRefreshSecret = c.JWTRefreshSecret
	}
	if c.JWTResetSecret != "" {
		config.JWTResetSecret = c.JWTResetSecret
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.ResetTokenValidityDuration.Duration != 0 {
		config.ResetTokenValidityDuration = time.Duration(c.ResetTokenValidityDuration.Duration)
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.AuthRateLimit != 0 {
		config.AuthRateLimit = c.AuthRateLimit
	}
	if c.RegisterRateLimit != 0 {
		config.RegisterRateLimit = c.RegisterRateLimit
	}
	if c.PasswordResetRateLimit != 0 {
		config.PasswordResetRateLimit = c.PasswordResetRateLimit
	}
	if c.AuthRateWindow.Duration != 0 {
		config.AuthRateWindow = c.AuthRateWindow.Duration
	}
	if c.MailProvider != "" {
		config.MailProvider = c.MailProvider
	}
	if c.MailgunDomain != "" {
		config.MailgunDomain = c.MailgunDomain
	}
	if c.MailgunAPIKey != "" {
		config.MailgunAPIKey = c.MailgunAPIKey
	}
	if c.MailFrom != "" {
		config.MailFrom = c.MailFrom
	}
}
