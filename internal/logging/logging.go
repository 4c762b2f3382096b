// Package logging provides the library's leveled logging backend, built on
// go-logging. Loggers are silent until the host application installs a backend,
// so the library never writes to stderr on its own.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	logging "gopkg.in/op/go-logging.v1"
)

const format = "%{time:15:04:05.000} %{level:.4s} %{module}: %{message}"

var (
	mu        sync.Mutex
	installed bool
)

// Get returns the logger for a module, e.g. "client" or "handshake".
func Get(module string) *logging.Logger {
	ensureDisabled()
	return logging.MustGetLogger(module)
}

// Enable routes all module loggers to w at the given level
// ("ERROR", "WARNING", "NOTICE", "INFO", "DEBUG").
func Enable(w io.Writer, level string) error {
	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return fmt.Errorf("logging: invalid level %q", level)
	}
	base := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(base, logging.MustStringFormatter(format))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")

	mu.Lock()
	defer mu.Unlock()
	logging.SetBackend(leveled)
	installed = true
	return nil
}

// Disable restores the silent default backend.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	setDiscardLocked()
}

func ensureDisabled() {
	mu.Lock()
	defer mu.Unlock()
	if !installed {
		setDiscardLocked()
		installed = true
	}
}

func setDiscardLocked() {
	base := logging.NewLogBackend(io.Discard, "", 0)
	leveled := logging.AddModuleLevel(base)
	leveled.SetLevel(logging.CRITICAL, "")
	logging.SetBackend(leveled)
}
