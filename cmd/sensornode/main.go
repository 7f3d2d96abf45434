// v2
// main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sensity-app/SensityDashboard/internal/app"
	"github.com/sensity-app/SensityDashboard/internal/config"
	"github.com/sensity-app/SensityDashboard/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, logWriter, logFile := logging.Init(cfg.LogFilePath, cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	logger.Info("sensor node starting",
		"deviceId", cfg.DeviceID,
		"name", cfg.DeviceName,
		"firmware", cfg.FirmwareVersion,
		"uplink", string(cfg.Uplink),
		"armed", cfg.Armed,
	)

	a, err := app.New(cfg, logger, logWriter)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
