// Package applog provides the package-scoped structured loggers used
// throughout the engine: one named logger per subsystem, obtained and
// called at the package level.
package applog

import (
	logging "github.com/ipfs/go-log/v2"
)

// Named returns a logger scoped to the given subsystem name, prefixed
// so every engine log line is easy to grep for in a mixed-agent log
// stream.
func Named(subsystem string) *logging.ZapEventLogger {
	return logging.Logger("abci-round-engine/" + subsystem)
}

// SetLevel sets the log level for every logger obtained through Named.
// Intended for test setup.
func SetLevel(level string) error {
	lvl, err := logging.LevelFromString(level)
	if err != nil {
		return err
	}
	logging.SetAllLoggers(lvl)
	return nil
}
