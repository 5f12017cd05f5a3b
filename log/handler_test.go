// Copyright (c) 2026 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewTerminalHandler(&buf, false))

	logger.Info("staked", "amount", 1_000_000, "total", big.NewInt(42), "addr", "0x01")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "staked")
	// native integers get thousand separators in terminal format
	assert.Contains(t, out, "1,000,000")
	assert.Contains(t, out, "total=42")
	assert.Contains(t, out, "addr=0x01")
}

func TestTerminalHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)
	logger := NewLogger(NewTerminalHandlerWithLevel(&buf, &lvl, false))

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogfmtHandler(&buf)).With("pkg", "staking")

	logger.Info("opened")
	assert.Contains(t, buf.String(), "pkg=staking")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}

func TestLevelString(t *testing.T) {
	for lvl, want := range map[slog.Level]string{
		LevelTrace: "trace",
		LevelInfo:  "info",
		LevelCrit:  "crit",
	} {
		assert.Equal(t, want, LevelString(lvl))
	}
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(JSONHandler(&buf))

	logger.Info("hello", "n", big.NewInt(7))
	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, `"lvl":"info"`)
	assert.Contains(t, line, `"n":"7"`)
}
