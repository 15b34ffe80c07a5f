package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cityjson/cjval/internal/engine"
	"github.com/cityjson/cjval/internal/fetch"
	"github.com/cityjson/cjval/internal/fs"
	"github.com/cityjson/cjval/internal/report"
	"github.com/cityjson/cjval/internal/schema"
	"github.com/cityjson/cjval/internal/seqvalidator"
	"github.com/cityjson/cjval/internal/watch"
)

// Options configures a single validation run.
type Options struct {
	Verbose   bool
	Output    string // "text" or "json"
	UseColour bool
	// SkipExtensions disables fetching and checking Extension schemas
	// declared by the document under validation.
	SkipExtensions bool
	// ExtensionFiles, if non-empty, are read from local disk and
	// registered instead of fetching each declared Extension by URL,
	// per spec.md's CLI surface ("-e <path> repeatable for local
	// Extension overrides").
	ExtensionFiles []string
}

// Manager is the surface the CLI commands drive; it exists so tests can
// substitute a fake instead of exercising real schema compilation and
// network fetches.
type Manager interface {
	ValidateFile(ctx context.Context, path string, opts Options) (bool, error)
	ValidateSeqFile(ctx context.Context, path string, opts Options) (bool, error)
	WatchFile(ctx context.Context, path string, opts Options, ready chan<- struct{}) error
}

// CLIManager is the real Manager, wired to an embedded schema registry
// and an HTTP Extension fetcher.
type CLIManager struct {
	logger   *slog.Logger
	registry *schema.Registry
	fetcher  fetch.Fetcher
	resolver fs.PathResolver
	stdout   io.Writer
}

// NewCLIManager returns a Manager backed by registry and fetcher,
// writing rendered reports to stdout.
func NewCLIManager(logger *slog.Logger, registry *schema.Registry, fetcher fetch.Fetcher, stdout io.Writer) *CLIManager {
	return &CLIManager{
		logger:   logger,
		registry: registry,
		fetcher:  fetcher,
		resolver: fs.NewPathResolver(),
		stdout:   stdout,
	}
}

// ValidateFile validates the CityJSON document at path and writes its
// rendered report to stdout. It returns whether the document is valid.
func (m *CLIManager) ValidateFile(ctx context.Context, path string, opts Options) (bool, error) {
	subject := path
	if abs, err := m.resolver.Abs(path); err == nil {
		subject = abs
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	v := engine.FromBytes(raw, m.registry)

	if !opts.SkipExtensions && v.Document() != nil {
		m.registerExtensions(ctx, v, opts)
	}

	rep := v.Validate(subject)
	if err := m.render(rep, opts); err != nil {
		return false, err
	}
	return rep.Valid(), nil
}

// registerExtensions resolves every Extension v's document declares and
// registers it against v, either from opts.ExtensionFiles (if given) or
// by fetching each declared URL. A failure to resolve one Extension is
// logged and otherwise ignored: its declarations are left unschemed,
// which the extensions check flags on its own.
func (m *CLIManager) registerExtensions(ctx context.Context, v *engine.Validator, opts Options) {
	if len(opts.ExtensionFiles) > 0 {
		for _, path := range opts.ExtensionFiles {
			raw, err := os.ReadFile(path)
			if err != nil {
				m.logger.Warn("failed to read local extension file, its declarations will be flagged unschemed",
					"path", path, "error", err)
				continue
			}
			if err := v.AddOneExtensionFromStr(raw); err != nil {
				m.logger.Warn("failed to register extension", "path", path, "error", err)
			}
		}
		return
	}

	for name, url := range v.GetExtensionsURLs() {
		extRaw, err := m.fetcher.Fetch(ctx, url)
		if err != nil {
			m.logger.Warn("failed to fetch extension, its declarations will be flagged unschemed",
				"extension", name, "url", url, "error", err)
			continue
		}
		if err := v.AddOneExtensionFromStr(extRaw); err != nil {
			m.logger.Warn("failed to register extension",
				"extension", name, "url", url, "error", err)
		}
	}
}

// ValidateSeqFile validates a CityJSONSeq stream and writes a rendered
// report per line to stdout. Extensions declared by the header are
// resolved once (from opts.ExtensionFiles, or fetched by URL) and
// shared with every feature line, per spec.md §4.6.
func (m *CLIManager) ValidateSeqFile(ctx context.Context, path string, opts Options) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sv := seqvalidator.New(m.registry)
	summary := sv.Validate(f, func(header *engine.Validator) {
		if !opts.SkipExtensions && header.Document() != nil {
			m.registerExtensions(ctx, header, opts)
		}
	})
	if summary.FatalError != nil {
		return false, summary.FatalError
	}

	for _, lr := range summary.Lines {
		if err := m.render(lr.Report, opts); err != nil {
			return false, err
		}
	}
	return summary.Valid(), nil
}

// WatchFile revalidates path every time it changes on disk, until ctx
// is cancelled. ready, if non-nil, is closed once the watch is armed.
func (m *CLIManager) WatchFile(ctx context.Context, path string, opts Options, ready chan<- struct{}) error {
	w := watch.New(path, m.logger)
	if ready != nil {
		go func() {
			<-w.Ready
			close(ready)
		}()
	}

	if _, err := m.ValidateFile(ctx, path, opts); err != nil {
		m.logger.Error("validation failed", "error", err)
	}

	return w.Watch(ctx, func(changed string) {
		if _, err := m.ValidateFile(ctx, changed, opts); err != nil {
			m.logger.Error("validation failed", "error", err)
		}
	})
}

func (m *CLIManager) render(rep *report.Report, opts Options) error {
	switch opts.Output {
	case "json":
		return (&report.JSONReporter{}).Write(m.stdout, rep)
	default:
		tr := &report.TextReporter{Verbose: opts.Verbose, UseColour: opts.UseColour}
		return tr.Write(m.stdout, rep)
	}
}

// LazyManager defers building the real CLIManager until a command
// actually needs one, so commands like "help" and "completion" never
// pay for registry setup.
type LazyManager struct {
	inner Manager
}

// HasInner reports whether SetInner has already been called.
func (l *LazyManager) HasInner() bool { return l.inner != nil }

// SetInner installs the real Manager.
func (l *LazyManager) SetInner(m Manager) { l.inner = m }

func (l *LazyManager) ValidateFile(ctx context.Context, path string, opts Options) (bool, error) {
	return l.inner.ValidateFile(ctx, path, opts)
}

func (l *LazyManager) ValidateSeqFile(ctx context.Context, path string, opts Options) (bool, error) {
	return l.inner.ValidateSeqFile(ctx, path, opts)
}

func (l *LazyManager) WatchFile(ctx context.Context, path string, opts Options, ready chan<- struct{}) error {
	return l.inner.WatchFile(ctx, path, opts, ready)
}
