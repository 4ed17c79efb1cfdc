package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/modlaunch/pkg/observability"
)

func TestSpinnerDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerOn(context.Background(), &buf, false, "Scanning")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerOn(context.Background(), &buf, true, "Scanning")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.SetMessage("Scanning modules (12 archives)")
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Scanning") || !strings.Contains(out, "(12 archives)") {
		t.Errorf("spinner output missing messages: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner should end by clearing its line: %q", out)
	}
}

func TestSpinnerStop(t *testing.T) {
	// Stop before Start must not block.
	s := newSpinnerOn(context.Background(), &bytes.Buffer{}, true, "idle")
	s.Stop()

	s = newSpinnerOn(context.Background(), &bytes.Buffer{}, true, "twice")
	s.Start()
	s.Stop()
	s.Stop()
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerOn(ctx, &bytes.Buffer{}, true, "Rendering")
	s.Start()
	cancel()
	time.Sleep(20 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("spinner should report its context as cancelled")
	}
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	s := newSpinnerOn(context.Background(), &bytes.Buffer{}, false, "Rendering")
	s.Start()
	s.StopWithSuccess("Rendered")
	s = newSpinnerOn(context.Background(), &bytes.Buffer{}, false, "Rendering")
	s.Start()
	s.StopWithError("Render failed")

	if !strings.Contains(out.String(), "Rendered") || !strings.Contains(out.String(), "Render failed") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestScanProgressCountsArchives(t *testing.T) {
	s := newSpinnerOn(context.Background(), &bytes.Buffer{}, false, "Scanning modules")
	p := &scanProgress{sp: s}
	ctx := context.Background()
	p.OnArchive(ctx, "/r/a.jar", nil)
	p.OnArchive(ctx, "/r/b.jar", errors.New("no manifest"))
	if s.message != "Scanning modules (2 archives)" {
		t.Errorf("message = %q", s.message)
	}
}

func TestTrackScanWithoutTerminal(t *testing.T) {
	old := spinnerOut
	spinnerOut = &bytes.Buffer{}
	defer func() { spinnerOut = old }()
	defer observability.Reset()
	called := false
	err := trackScan(context.Background(), func() error {
		called = true
		if _, ok := observability.Scan().(*scanProgress); ok {
			t.Error("scan hooks should be untouched when not on a terminal")
		}
		return nil
	})
	if err != nil || !called {
		t.Errorf("trackScan = %v, called %v", err, called)
	}
}
