// ABOUTME: File-backed logger setup for the TUI
// ABOUTME: Redirects logrus to a log file so the terminal display stays clean

package debuglog

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

var logFile *os.File

// Init points logrus at a debug.log file inside configDir for the lifetime
// of the TUI. If configDir is empty, log output is discarded instead.
func Init(configDir string) error {
	if configDir == "" {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		log.SetOutput(io.Discard)
		return err
	}

	logPath := filepath.Join(configDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return err
	}

	logFile = f
	log.SetOutput(f)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

// Close restores logrus output to stderr and closes the log file.
func Close() {
	log.SetOutput(os.Stderr)
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
