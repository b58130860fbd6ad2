package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, ERROR, ParseLevel(" ERROR "))
	assert.Equal(t, INFO, ParseLevel("info"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "ERROR")

	l.Printf("listing %d loaded", 68)
	l.Debugf("request body %s", "{}")
	assert.Empty(t, buf.String())

	l.Errorf("search failed: %s", "boom")
	assert.Contains(t, buf.String(), "search failed: boom")
}

func TestDebugLoggerWritesEverything(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "DEBUG")

	l.Debug("one")
	l.Println("two")
	l.Error("three")

	out := buf.String()
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.Contains(t, out, "three")
}

func TestInitLoggerReplacesGlobal(t *testing.T) {
	previous := GlobalLogger
	t.Cleanup(func() { GlobalLogger = previous })

	var buf bytes.Buffer
	InitLogger(&buf, "INFO")
	GlobalLogger.Printf("hello %s", "rex")

	assert.Contains(t, buf.String(), "hello rex")
	assert.Equal(t, INFO, GlobalLogger.Level())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "<none>", Mask(""))
	assert.Equal(t, "****", Mask("abc"))
	assert.Equal(t, "****6789", Mask("0123456789"))
}
