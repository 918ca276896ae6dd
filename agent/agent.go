// Package agent polls Readwise for recently saved articles, checks each
// against a fixed list of active problems via an LLM, and appends any hits
// to a daily note.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gosuri/uilive"
	"golang.org/x/time/rate"

	"github.com/dvorn/feynman-tools/llm"
	"github.com/dvorn/feynman-tools/readwise"
)

const (
	contextFileName    = "ActiveProblems.md"
	dailyNoteFolder    = "Daily Notes"
	defaultWindowHours = 24
)

// Library lists recently saved documents. Satisfied by *readwise.Client.
type Library interface {
	ListRecent(ctx context.Context, updatedAfter time.Time) ([]readwise.Document, error)
}

var _ Library = (*readwise.Client)(nil)

type Config struct {
	// VaultPath is the Obsidian vault root holding ActiveProblems.md and
	// the Daily Notes folder.
	VaultPath string

	// Hours is the lookback window for recently saved articles.
	Hours int

	// DryRun analyzes documents but does not touch the daily note.
	DryRun bool
}

func (c Config) contextFile() string {
	return filepath.Join(c.VaultPath, contextFileName)
}

func (c Config) dailyNoteDir() string {
	return filepath.Join(c.VaultPath, dailyNoteFolder)
}

type Agent struct {
	cfg     Config
	llm     llm.Client
	library Library
	limiter *rate.Limiter

	// status renders in-place progress while documents are analyzed.
	status *uilive.Writer
}

func New(cfg Config, client llm.Client, library Library) *Agent {
	if cfg.Hours <= 0 {
		cfg.Hours = defaultWindowHours
	}
	return &Agent{
		cfg:     cfg,
		llm:     client,
		library: library,
		// One document per second, matching the API pacing of the
		// original workflow.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		status:  uilive.New(),
	}
}

// Run executes one full agent pass: load context, fetch recent documents,
// analyze each, and append the hits to today's daily note. Per-document
// failures are logged and skipped.
func (a *Agent) Run(ctx context.Context) error {
	problems, err := os.ReadFile(a.cfg.contextFile())
	if err != nil {
		return fmt.Errorf("read context file: %w", err)
	}

	since := time.Now().Add(-time.Duration(a.cfg.Hours) * time.Hour)
	docs, err := a.library.ListRecent(ctx, since)
	if err != nil {
		return fmt.Errorf("fetch recent documents: %w", err)
	}
	slog.Info("fetched recent documents", "count", len(docs), "hours", a.cfg.Hours)

	a.status.Start()
	defer a.status.Stop()

	var hits []*Insight
	for i, doc := range docs {
		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}

		fmt.Fprintf(a.status, "Analyzing (%d/%d): %s\n", i+1, len(docs), doc.Title)
		a.status.Flush()

		insight, err := a.analyze(ctx, doc, string(problems))
		if err != nil {
			slog.Error("document analysis failed", "title", doc.Title, "error", err)
			continue
		}
		if insight == nil {
			slog.Debug("no hit", "title", doc.Title)
			continue
		}

		slog.Info("hit found", "project", insight.ProjectName, "title", doc.Title)
		hits = append(hits, insight)
	}

	if len(hits) == 0 {
		slog.Info("no hits found")
		return nil
	}
	if a.cfg.DryRun {
		slog.Info("dry run, skipping daily note", "hits", len(hits))
		return nil
	}

	path, err := AppendDailyNote(a.cfg.dailyNoteDir(), time.Now(), hits)
	if err != nil {
		return err
	}
	slog.Info("daily note updated", "path", path, "hits", len(hits))
	return nil
}

// analyze runs one document against the active problems. A nil insight
// with nil error means the document produced no hit.
func (a *Agent) analyze(ctx context.Context, doc readwise.Document, problems string) (*Insight, error) {
	content := doc.Content()
	if len(content) < minContentBytes {
		return nil, nil
	}

	prompt, err := buildPrompt(problems, doc.Title, content)
	if err != nil {
		return nil, err
	}

	reply, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	insight, ok := ParseInsight(reply)
	if !ok {
		return nil, nil
	}

	insight.SourceURL = doc.SourceURL
	if insight.SourceURL == "" {
		insight.SourceURL = "#"
	}
	return insight, nil
}
