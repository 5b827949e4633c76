package config

import (
	"os"
	"time"
)

// StorageConfig points the image uploader at an S3-compatible bucket
// (Supabase Storage, MinIO, AWS). An empty Bucket disables uploads.
type StorageConfig struct {
	Bucket        string
	Region        string
	BaseEndpoint  string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// Config holds runtime settings for the philosophies client.
//
// Fields:
//   - SupabaseURL / SupabaseAnonKey: project endpoint and public API key.
//   - SiteURL: where email confirmation links send the user back to.
//   - DatabasePath: local SQLite mirror (catalogue + persisted session).
//   - RequestTimeout: upper bound for a single call to the auth/data service.
//   - GuardTimeout: how long a protected page waits for the role to resolve.
type Config struct {
	SupabaseURL     string
	SupabaseAnonKey string
	SiteURL         string
	DatabasePath    string
	RequestTimeout  time.Duration
	GuardTimeout    time.Duration
	LogLevel        string
	Storage         StorageConfig
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.SupabaseURL = "http://127.0.0.1:54321"
	c.SiteURL = "http://localhost:8080"
	c.DatabasePath = "philosophies.db"
	c.RequestTimeout = 10 * time.Second
	c.GuardTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.Storage.Region = "us-east-1"
}

// Load builds a Config from defaults, the environment (including a .env file
// in the working directory), an optional JSON file and finally args.
// Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments. It panics on malformed
// configuration since nothing useful can run without it.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
