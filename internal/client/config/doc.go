// Package config loads runtime configuration for the philosophies client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after exporting a .env file from the working
//     directory if one exists (SUPABASE_URL, SUPABASE_ANON_KEY, SITE_URL,
//     PHILOSOPHIES_DB, REQUEST_TIMEOUT, GUARD_TIMEOUT, LOG_LEVEL, S3_*).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "supabase_url": "https://abc.supabase.co",
//	  "supabase_anon_key": "eyJ...",
//	  "site_url": "https://philosophies.example",
//	  "database_path": "philosophies.db",
//	  "request_timeout": "10s",
//	  "guard_timeout": "15s",
//	  "log_level": "info",
//	  "storage": {"bucket": "images", "endpoint": "https://abc.supabase.co/storage/v1/s3"}
//	}
package config
