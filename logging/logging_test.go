package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleVerboseGating(t *testing.T) {
	var quiet bytes.Buffer
	NewConsole(&quiet, false).Debugf("hidden %d", 1)
	if quiet.Len() != 0 {
		t.Errorf("non-verbose console wrote debug output: %q", quiet.String())
	}

	var loud bytes.Buffer
	NewConsole(&loud, true).Debugf("shown %d", 2)
	if !strings.Contains(loud.String(), "shown 2") {
		t.Errorf("verbose console missing debug output: %q", loud.String())
	}
}

func TestConsoleWarn(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, false).Warnf("page %d mismatch", 3)
	if !strings.Contains(buf.String(), "page 3 mismatch") {
		t.Errorf("warn output = %q", buf.String())
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic with any argument shape.
	l := Nop()
	l.Debugf("a")
	l.Infof("b %d", 1)
	l.Warnf("c %v", nil)
}
