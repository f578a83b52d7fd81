package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"

	"github.com/careassist/care-reminder/pkg/logging"
)

func setupAutostart(enable bool, logger *logging.Logger) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	entry := &autostart.App{
		Name:        "care-reminder",
		DisplayName: "Care Reminder",
		Exec:        []string{execPath},
	}

	switch {
	case enable && !entry.IsEnabled():
		if err := entry.Enable(); err != nil {
			logger.Error("failed to enable autostart", "error", err)
			return err
		}
		logger.Info("autostart enabled")
	case !enable && entry.IsEnabled():
		if err := entry.Disable(); err != nil {
			logger.Error("failed to disable autostart", "error", err)
			return err
		}
		logger.Info("autostart disabled")
	}
	return nil
}
