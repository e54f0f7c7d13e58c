package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ui-inspector/backend/report"
	"github.com/ui-inspector/backend/stats"
)

func summaryReport(critical, major, minor int) *report.Report {
	return &report.Report{
		Summary: report.Summary{
			BySeverity: map[string]int{
				"critical": critical,
				"major":    major,
				"minor":    minor,
			},
		},
	}
}

func TestCheckFailOn(t *testing.T) {
	tests := []struct {
		name                   string
		failOn                 string
		critical, major, minor int
		wantExit               bool
	}{
		{"critical present", "critical", 1, 0, 0, true},
		{"only major with critical floor", "critical", 0, 3, 5, false},
		{"major floor", "major", 0, 3, 0, true},
		{"minor floor", "minor", 0, 0, 1, true},
		{"none never fails", "none", 9, 9, 9, false},
		{"clean run", "minor", 0, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkFailOn(tc.failOn, summaryReport(tc.critical, tc.major, tc.minor))
			if tc.wantExit {
				var ee *exitErr
				if !errors.As(err, &ee) {
					t.Fatalf("expected exit error, got %v", err)
				}
				if ee.code != 2 {
					t.Errorf("exit code = %d, want 2", ee.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckFailOnInvalidValue(t *testing.T) {
	err := checkFailOn("bogus", summaryReport(0, 0, 0))
	if err == nil {
		t.Fatal("expected error for invalid fail-on value")
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		t.Error("invalid flag value is a usage error, not an exit code")
	}
}

func TestRecordRunPersistsBeforeReturn(t *testing.T) {
	dataDir := t.TempDir()

	rep := summaryReport(2, 1, 0)
	rep.Summary.TotalCells = 4
	recordRun(dataDir, rep, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// A fresh storage must see the run on disk without waiting for the
	// background writer.
	storage, err := stats.NewStorage(dataDir)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	got := storage.GetCurrentStats()
	if got.Runs != 1 {
		t.Errorf("Runs = %d, want 1", got.Runs)
	}
	if got.CriticalIssues != 2 {
		t.Errorf("CriticalIssues = %d, want 2", got.CriticalIssues)
	}
}

func TestResolveConfigOverrides(t *testing.T) {
	f := &runFlags{
		baseURL:     "http://localhost:4000",
		routes:      []string{"/", "/pricing"},
		outDir:      "out",
		screenshots: true,
	}

	cfg, err := resolveConfig(f)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.BaseURL != "http://localhost:4000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if len(cfg.Routes) != 2 {
		t.Errorf("Routes = %v", cfg.Routes)
	}
	if cfg.ReportDir != "out" {
		t.Errorf("ReportDir = %q", cfg.ReportDir)
	}
	if !cfg.Screenshots {
		t.Error("screenshots flag not applied")
	}
	// Untouched fields keep their defaults.
	if cfg.ChunkSize != 5 {
		t.Errorf("ChunkSize = %d, want default 5", cfg.ChunkSize)
	}
}
