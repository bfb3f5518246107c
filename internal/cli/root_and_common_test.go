package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecuteUnknownCommandExitsTwo(t *testing.T) {
	deps, _ := testDeps(&testStore{})
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := Execute(context.Background(), []string{"reservations"}, deps, stdout, stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "No such command 'reservations'") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestExecuteVersionFlag(t *testing.T) {
	deps, _ := testDeps(&testStore{})
	stdout := &bytes.Buffer{}

	code := Execute(context.Background(), []string{"--version"}, deps, stdout, &bytes.Buffer{})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if strings.TrimSpace(stdout.String()) != "test" {
		t.Fatalf("unexpected version output: %q", stdout.String())
	}
}

func TestRenderRootHelpListsSharedGlobals(t *testing.T) {
	root := NewRootCommand(Dependencies{Version: "test"})
	buf := &bytes.Buffer{}
	renderRootHelp(buf, root)
	out := buf.String()

	if !strings.Contains(out, "global options") {
		t.Fatalf("expected global options section:\n%s", out)
	}
	for _, name := range sharedGlobalOptionOrder {
		if !strings.Contains(out, "--"+name) {
			t.Errorf("missing shared option --%s in help:\n%s", name, out)
		}
	}
	for _, command := range []string{"status", "hours", "closings", "messages", "sync", "serve", "configure"} {
		if !strings.Contains(out, command) {
			t.Errorf("missing command %s in help:\n%s", command, out)
		}
	}
}

func TestParsePeriodsFlag(t *testing.T) {
	periods, err := parsePeriodsFlag("09:00-12:00, 13:00-18:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("parsed %d periods, want 2", len(periods))
	}
	if periods[1].Open != "13:00" || periods[1].Close != "18:00" {
		t.Fatalf("unexpected second period: %+v", periods[1])
	}

	if _, err := parsePeriodsFlag("9am-noon"); err == nil {
		t.Error("expected error for non-clock bounds")
	}
	if _, err := parsePeriodsFlag("09:00"); err == nil {
		t.Error("expected error for missing separator")
	}
	if _, err := parsePeriodsFlag("25:00-26:00"); err == nil {
		t.Error("expected error for out-of-range hours")
	}

	empty, err := parsePeriodsFlag("  ")
	if err != nil || empty != nil {
		t.Errorf("blank input should parse to nothing, got %v %v", empty, err)
	}
}

func TestIsClockValue(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	for _, v := range valid {
		if !isClockValue(v) {
			t.Errorf("isClockValue(%q) = false", v)
		}
	}
	invalid := []string{"24:00", "12:60", "9:30", "aa:bb", "12-30", ""}
	for _, v := range invalid {
		if isClockValue(v) {
			t.Errorf("isClockValue(%q) = true", v)
		}
	}
}

func TestParseAtFlag(t *testing.T) {
	utc := time.UTC

	got, err := parseAtFlag("2024-06-10T09:30:00Z", utc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("unexpected parsed time: %v", got)
	}

	got, err = parseAtFlag("2024-06-10 21:15", utc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 21 || got.Minute() != 15 || got.Location() != utc {
		t.Fatalf("unexpected parsed time: %v", got)
	}

	if _, err := parseAtFlag("yesterday", utc); err == nil {
		t.Error("expected error for free-form input")
	}
	if _, err := parseAtFlag("", utc); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDayKeyFlag(t *testing.T) {
	key, err := dayKeyFlag("  Friday ")
	if err != nil || key != "friday" {
		t.Fatalf("dayKeyFlag = %q, %v", key, err)
	}
	if _, err := dayKeyFlag("someday"); err == nil {
		t.Error("expected error for unknown day")
	}
}
