package utils

import (
	"io"

	"github.com/MrSnakeDoc/folio/internal/logger"
)

// Close closes c and ignores any error.
// Use for response bodies, where the payload was already read.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseLogged closes c and reports the outcome. what names the resource in logs.
func CloseLogged(c io.Closer, log logger.Logger, what string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", what), logger.Error(err))
		return
	}
	log.Info("closed cleanly", logger.String("resource", what))
}
