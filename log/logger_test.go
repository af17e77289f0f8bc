package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minminkikiki/kaia-sdk/config"
)

func TestNewLoggerLevel(t *testing.T) {
	cfg := config.Default("http://localhost:8551")
	cfg.LogLevel = "info"

	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, cfg)
	logger.Debug("hidden")
	logger.Info("rpc call", "method", "klay_syncing")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"method":"klay_syncing"`)
	assert.Contains(t, out, `"message":"rpc call"`)
}

func TestNewLoggerPlain(t *testing.T) {
	cfg := config.Default("http://localhost:8551")
	cfg.LogFormat = "plain"
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	NewLoggerTo(&buf, cfg).Warn("slow node", "method", "eth_chainId")
	assert.Contains(t, buf.String(), "slow node")
	assert.Contains(t, buf.String(), "method=eth_chainId")
}
