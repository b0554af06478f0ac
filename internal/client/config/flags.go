package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/chatvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path of the local database file
//	-p string   default provider
//	-m string   default model
//	-t float    sampling temperature
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-p", "-m", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database file")
	fs.StringVar(&cfg.DefaultProvider, "p", cfg.DefaultProvider, "default provider")
	fs.StringVar(&cfg.DefaultModel, "m", cfg.DefaultModel, "default model")
	fs.Float64Var(&cfg.Temperature, "t", cfg.Temperature, "sampling temperature")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
