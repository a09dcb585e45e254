package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/handiism/bandcamp-explorer/internal/config"
	"github.com/handiism/bandcamp-explorer/internal/explorer"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	logFlag := flag.String("log", "", "Write logs to this file instead of discarding them")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logCfg := settings.ToLoggerConfig()
	logCfg.Output = out

	exp, err := explorer.New(settings, logger.New(logCfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer exp.Close()

	if err := tui.Run(exp); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
