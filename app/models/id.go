package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed public identifier such as "forecast_1a2b3c4d5e6f".
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:12]
}
