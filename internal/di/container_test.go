package di

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/spam-sorter/internal/app"
	"github.com/mikey/spam-sorter/internal/config"
	"github.com/mikey/spam-sorter/internal/playback"
)

func writeFixtures(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"emails.txt": "a@x.com,free offer now\n" +
			"b@x.com,meeting notes\n" +
			"c@x.com,claim your free prize\n" +
			"d@x.com,notes from the meeting\n",
		"spam_words.txt":     "free\nprize\n",
		"non_spam_words.txt": "meeting\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBuildContainerRunsHeadlessSession(t *testing.T) {
	dir := writeFixtures(t)
	flags := &Flags{
		Corpus:       filepath.Join(dir, "emails.txt"),
		SpamWords:    filepath.Join(dir, "spam_words.txt"),
		NonSpamWords: filepath.Join(dir, "non_spam_words.txt"),
		Report:       filepath.Join(dir, "classification_report.txt"),
		ReportType:   "text,console",
	}
	cfg := config.NewFromViper(config.NewEmptyViper())
	applyFlags(cfg, flags)
	cfg.Set("logging.output", filepath.Join(dir, "sorter.log"))

	var console bytes.Buffer
	container, err := BuildContainer(cfg, &console)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}

	var outcome *playback.Outcome
	err = container.Invoke(func(a *app.App) error {
		defer a.Close()
		var runErr error
		outcome, runErr = a.RunHeadless(context.Background())
		return runErr
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if outcome.State != playback.Settled || outcome.Canceled || outcome.Classified != 4 {
		t.Errorf("outcome = %+v", outcome)
	}
	data, err := os.ReadFile(flags.Report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	for _, want := range []string{"Total Emails: 4", "Spam Emails: 2", "Non-Spam Emails: 2", "Spam Ratio: 50.00%"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %q", want)
		}
	}
	if !strings.Contains(console.String(), "=== Results ===") {
		t.Errorf("console sink output missing:\n%s", console.String())
	}
}

func TestBuildContainerRejectsUnknownSink(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("report.type", "carrier-pigeon")
	cfg.Set("logging.output", filepath.Join(t.TempDir(), "sorter.log"))

	container, err := BuildContainer(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}
	err = container.Invoke(func(*app.App) {})
	if err == nil || !strings.Contains(err.Error(), "unsupported report type") {
		t.Errorf("expected the sink error to surface, got %v", err)
	}
}

func TestApplyFlagsOnlyOverridesSetValues(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("corpus.path", "from-file.txt")
	applyFlags(cfg, &Flags{SpamWords: "spam.txt", Verbose: true, JSONLog: true})

	if got := cfg.GetString("corpus.path"); got != "from-file.txt" {
		t.Errorf("corpus.path = %q", got)
	}
	if got := cfg.GetString("keywords.spam_path"); got != "spam.txt" {
		t.Errorf("keywords.spam_path = %q", got)
	}
	if cfg.GetString("logging.level") != "debug" || cfg.GetString("logging.format") != "json" || !cfg.GetBool("cli.verbose") {
		t.Error("verbose and json flags were not applied")
	}
}
