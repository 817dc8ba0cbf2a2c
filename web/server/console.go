package server

import (
	"fmt"
	"log"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// WebLogger implements core.Logger by tagging render progress with its render ID in the server log
type WebLogger struct {
	renderID int64
	logger   *log.Logger
}

// NewWebLogger creates a new web logger for a specific render; a nil logger uses the standard logger
func NewWebLogger(renderID int64, logger *log.Logger) core.Logger {
	if logger == nil {
		logger = log.Default()
	}
	return &WebLogger{renderID: renderID, logger: logger}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	wl.logger.Printf("[render %d] %s", wl.renderID, message)
}
