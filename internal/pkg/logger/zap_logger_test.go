package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapLoggerFrom(zap.New(core))

	l.Info("notebook", "notebook deleted", map[string]interface{}{"notes_deleted": 2})
	l.Error("notebook", "delete failed", map[string]interface{}{"error": errors.New("boom")})
	l.Debug("home", "no details", nil)

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "notebook", ctx["module"])
		assert.Equal(t, "notebook deleted", entries[0].Message)

		errCtx := entries[1].ContextMap()
		assert.Equal(t, "boom", errCtx["error"])
	}
}
