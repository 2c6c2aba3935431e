// Package onetool reads the notebook hierarchy and page contents of a
// OneNote-style document store and edits page text as a list of lines.
package onetool

import (
	"github.com/akeil/onetool/internal/logging"
)

// SetLogLevel sets the level for the package's logger by name
// ("debug", "info", "warning", "error"). Unknown names disable logging.
func SetLogLevel(level string) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = logging.LevelNone
	}
	logging.SetLevel(lvl)
}
