package gmlog

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, func()) {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	return &buf, func() { baseLogger = saved }
}

func TestLevelFiltering(t *testing.T) {
	buf, restore := capture(t)
	defer restore()

	SetLevel("warn")
	defer SetLevel("info")

	Infof("should be suppressed")
	Warnf("visible warning")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info line leaked through warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] visible warning") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestNoDoubleFormattingWithPercent(t *testing.T) {
	buf, restore := capture(t)
	defer restore()

	SetLevel("info")
	msg := "exported profile.png (100.0% of 12 figures)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of 12 figures)") {
		t.Fatalf("log output missing percent segment: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestUnknownLevelIgnored(t *testing.T) {
	SetLevel("info")
	SetLevel("nonsense")
	if GetLevel() != LevelInfo {
		t.Fatalf("unknown level name changed the level")
	}
}
