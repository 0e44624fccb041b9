package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophstore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend server
//	-t int      request timeout in seconds
//	-m string   cart mode: server or local
//	-d string   path to the local state database
//	-r          auto-login after registration
//
// Args are filtered through flagx.FilterArgs so flags handled elsewhere
// (such as -c/-config) do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-m", "-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.CartMode, "m", cfg.CartMode, "cart mode: server or local")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "path to the local state database")
	fs.BoolVar(&cfg.AutoLoginAfterRegister, "r", cfg.AutoLoginAfterRegister, "log in automatically after registration")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
