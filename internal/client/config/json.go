package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/philosophies/internal/flagx"
	"github.com/dmitrijs2005/philosophies/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so the file may say "10s" or give integer nanoseconds.
type JsonConfig struct {
	SupabaseURL     string         `json:"supabase_url"`
	SupabaseAnonKey string         `json:"supabase_anon_key"`
	SiteURL         string         `json:"site_url"`
	DatabasePath    string         `json:"database_path"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	GuardTimeout    timex.Duration `json:"guard_timeout"`
	LogLevel        string         `json:"log_level"`
	Storage         struct {
		Bucket        string `json:"bucket"`
		Region        string `json:"region"`
		BaseEndpoint  string `json:"endpoint"`
		AccessKey     string `json:"access_key"`
		SecretKey     string `json:"secret_key"`
		PublicBaseURL string `json:"public_url"`
	} `json:"storage"`
}

// parseJson overlays cfg with the file named by -c / -config, if any.
// Only fields present (non-zero) in the file are applied.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.SupabaseURL, jc.SupabaseURL)
	set(&cfg.SupabaseAnonKey, jc.SupabaseAnonKey)
	set(&cfg.SiteURL, jc.SiteURL)
	set(&cfg.DatabasePath, jc.DatabasePath)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.Storage.Bucket, jc.Storage.Bucket)
	set(&cfg.Storage.Region, jc.Storage.Region)
	set(&cfg.Storage.BaseEndpoint, jc.Storage.BaseEndpoint)
	set(&cfg.Storage.AccessKey, jc.Storage.AccessKey)
	set(&cfg.Storage.SecretKey, jc.Storage.SecretKey)
	set(&cfg.Storage.PublicBaseURL, jc.Storage.PublicBaseURL)

	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.GuardTimeout.Duration > 0 {
		cfg.GuardTimeout = jc.GuardTimeout.Duration
	}
	return nil
}
