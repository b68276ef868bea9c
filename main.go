package main

import (
	"log/slog"
	"os"

	"github.com/kbowers/daytally/cmd"
	"github.com/kbowers/daytally/internal/config"
	"github.com/kbowers/daytally/internal/logging"
)

func main() {
	if cfg, err := config.Load(); err == nil {
		if err := logging.Init(cfg.DataDir, cfg.LogLevel); err != nil {
			// Logging is best-effort; commands still work without the file.
			slog.Warn("file logging unavailable", "error", err)
		}
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
