package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv exports variables from path into the process environment.
// A missing file is fine; variables already set are never overridden.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays cfg with environment variables. Unset or empty variables
// leave the current value alone.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("SUPABASE_URL", &cfg.SupabaseURL)
	str("SUPABASE_ANON_KEY", &cfg.SupabaseAnonKey)
	str("SITE_URL", &cfg.SiteURL)
	str("PHILOSOPHIES_DB", &cfg.DatabasePath)
	str("LOG_LEVEL", &cfg.LogLevel)

	str("S3_BUCKET", &cfg.Storage.Bucket)
	str("S3_REGION", &cfg.Storage.Region)
	str("S3_ENDPOINT", &cfg.Storage.BaseEndpoint)
	str("S3_ACCESS_KEY", &cfg.Storage.AccessKey)
	str("S3_SECRET_KEY", &cfg.Storage.SecretKey)
	str("S3_PUBLIC_URL", &cfg.Storage.PublicBaseURL)

	if err := dur("REQUEST_TIMEOUT", &cfg.RequestTimeout); err != nil {
		return err
	}
	return dur("GUARD_TIMEOUT", &cfg.GuardTimeout)
}
