package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExitCode(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	assert.Equal(t, 0, exitCode(log, nil))
	assert.Equal(t, 0, logs.Len())

	assert.Equal(t, 1, exitCode(log, errors.New("listen tcp :5000: address already in use")))
	entries := logs.FilterMessage("server stopped with error").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Contains(t, entries[0].ContextMap()["error"], "address already in use")
	}
}
