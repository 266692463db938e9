// Package relaylog points the standard logger at stderr plus the configured
// log file, so the relay keeps an on-host trail next to its audit records.
package relaylog

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

func Setup(path string) {
	if path == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("Warning: cannot create log directory: %v", err)
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("Warning: cannot open log file: %v", err)
		return
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
