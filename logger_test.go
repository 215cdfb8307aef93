package chartexport

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/chartexport/surface"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLoggerReachesPipeline(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	exp := New(fastOptions()...)
	s := surface.NewMemory(surface.KindBar, surface.ThemeLight, 20, 15, testSeries()...)
	s.FailCapture(errTestEngine)

	_, err := exp.Run(context.Background(), Job{
		Charts: []Chart{{Surface: s, Title: "broken"}, {Surface: newTestSurface(surface.KindLine), Title: "ok"}},
		Theme:  surface.ThemeLight,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"job=", "chart skipped", "stage=capturing", "capture: rendered", "document: finished"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}
