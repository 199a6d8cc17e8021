package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	cmd := newRootCmd()

	report, _, err := cmd.Find([]string{"report"})
	if err != nil || report.Name() != "report" {
		t.Fatalf("report subcommand missing: %v", err)
	}
	for _, name := range []string{"config", "corpus", "corpus-type", "spam-words", "non-spam-words", "report", "report-type", "verbose", "json-log"} {
		if report.Flags().Lookup(name) == nil && report.InheritedFlags().Lookup(name) == nil {
			t.Errorf("flag --%s not available to report", name)
		}
	}
}

func TestReportCommandWritesReports(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	files := map[string]string{
		"emails.txt":         "a@x.com,win free money\nb@x.com,lunch on friday\nc@x.com,free prize inside\n",
		"spam_words.txt":     "free\n",
		"non_spam_words.txt": "lunch\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"report",
		"--corpus", filepath.Join(dir, "emails.txt"),
		"--spam-words", filepath.Join(dir, "spam_words.txt"),
		"--non-spam-words", filepath.Join(dir, "non_spam_words.txt"),
		"--report", filepath.Join(dir, "out", "report.txt"),
		"--report-type", "text,console",
	})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("report command failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "report.txt"))
	if err != nil {
		t.Fatalf("report file: %v", err)
	}
	if !strings.Contains(string(data), "Total Emails: 3") {
		t.Errorf("unexpected report:\n%s", data)
	}
	if !strings.Contains(out.String(), "=== Results ===") {
		t.Errorf("console sink output missing:\n%s", out.String())
	}
}

func TestReportCommandFailsOnMissingCorpus(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "--corpus", filepath.Join(dir, "missing.txt"), "--report-type", "memory"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error for a missing corpus")
	}
}
