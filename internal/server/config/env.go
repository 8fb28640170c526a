package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Variable names
// follow the platform's deployment convention:
//
//	APP_ENV             deployment environment ("development", "production")
//	PORT                HTTP port, applied as ":<port>"
//	ADDRESS             full HTTP bind address (wins over PORT)
//	DATABASE_URL        PostgreSQL DSN
//	REDIS_URL           Redis connection URL
//	JWT_SECRET          access token secret
//	JWT_REFRESH_SECRET  refresh token secret
//	JWT_RESET_SECRET    password-reset token secret
//	BCRYPT_COST         bcrypt work factor
//	API_RATE_LIMIT      login attempts per window
//	API_RATE_WINDOW     rate-limit window (time.Duration string)
//	MAIL_PROVIDER       "log" or "mailgun"
//	MAILGUN_DOMAIN, MAILGUN_API_KEY, MAIL_FROM
func parseEnv(config *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		config.RedisURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.JWTAccessSecret = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		config.JWTRefreshSecret = v
	}
	if v := os.Getenv("JWT_RESET_SECRET"); v != "" {
		config.JWTResetSecret = v
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.AuthRateLimit = n
		}
	}
	if v := os.Getenv("API_RATE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AuthRateWindow = d
		}
	}
	if v := os.Getenv("MAIL_PROVIDER"); v != "" {
		config.MailProvider = v
	}
	if v := os.Getenv("MAILGUN_DOMAIN"); v != "" {
		config.MailgunDomain = v
	}
	if v := os.Getenv("MAILGUN_API_KEY"); v != "" {
		config.MailgunAPIKey = v
	}
	if v := os.Getenv("MAIL_FROM"); v != "" {
		config.MailFrom = v
	}
}
