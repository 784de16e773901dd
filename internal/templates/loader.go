package templates

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// loadConcurrency bounds how many template files are parsed at once.
const loadConcurrency = 8

// Loader reads template files from disk.
type Loader struct {
	parser *Parser
	logger *zap.Logger
	tracer trace.Tracer
}

// NewLoader returns a loader parsing with parser.
func NewLoader(parser *Parser, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		parser: parser,
		logger: logger,
		tracer: otel.Tracer("appforms.templates.loader"),
	}
}

// Load parses every template under paths. A path is either a template file or
// a directory whose .json, .yaml and .yml files are read (not recursively).
// Files are parsed in parallel; the first failure cancels the rest and is
// returned naming its file. Results follow the sorted file order.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*Template, error) {
	ctx, span := l.tracer.Start(ctx, "Loader.Load")
	defer span.End()

	files, err := expandPaths(paths)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list template files")
		return nil, err
	}
	span.SetAttributes(attribute.Int("templates.files", len(files)))

	loaded := make([]*Template, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := l.loadFile(file)
			if err != nil {
				return fmt.Errorf("load template %s: %w", file, err)
			}
			loaded[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load templates")
		return nil, err
	}

	l.logger.Info("loaded application templates",
		zap.Int("files", len(files)),
		zap.Strings("paths", paths),
	)
	return loaded, nil
}

func (l *Loader) loadFile(path string) (*Template, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("unsupported template file extension %q", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := l.parser.Parse(f, format)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loaded template file",
		zap.String("file", path),
		zap.String("template_id", t.ID),
	)
	return t, nil
}

// expandPaths resolves directories to the template files they hold and
// returns the de-duplicated result in sorted order.
func expandPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("template path: %w", err)
		}
		if !info.IsDir() {
			add(filepath.Clean(path))
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read template directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, ok := FormatOf(entry.Name()); ok {
				add(filepath.Join(path, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
