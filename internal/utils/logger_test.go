package utils

import (
	"bytes"
	"testing"

	log1 "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestInitLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn")
	assert.Equal(t, log1.WarnLevel, Print.GetLevel())

	Print.Info("hidden")
	assert.Empty(t, buf.String())

	Print.Warn("seat taken", "slot", 2)
	assert.Contains(t, buf.String(), "seat taken")
	assert.Contains(t, buf.String(), "slot")
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "loud")
	assert.Equal(t, log1.InfoLevel, Print.GetLevel())
}
