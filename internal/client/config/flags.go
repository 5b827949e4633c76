package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/philosophies/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-u string   Supabase project URL
//	-k string   Supabase anon key
//	-s string   site URL used as the email confirmation redirect
//	-d string   path of the local SQLite database
//	-t int      request timeout (in seconds)
//	-l string   log level
//
// Only the flags above are looked at (flagx.FilterArgs), so -c/-config and
// anything else on the command line does not trip the parser. A timeout
// from an earlier source is replaced only when -t is given.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-u", "-k", "-s", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.SupabaseURL, "u", cfg.SupabaseURL, "Supabase project URL")
	fs.StringVar(&cfg.SupabaseAnonKey, "k", cfg.SupabaseAnonKey, "Supabase anon key")
	fs.StringVar(&cfg.SiteURL, "s", cfg.SiteURL, "site URL for email confirmation redirects")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
