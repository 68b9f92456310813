// Package logging configures the process-wide logger.
package logging

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
)

// NewLogger builds a terminal logger at the given level. Unknown level
// strings fall back to info rather than failing startup.
func NewLogger(level string, color bool) log.Logger {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		lvl = log.LevelInfo
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, color))
}
