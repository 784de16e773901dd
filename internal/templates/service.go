package templates

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"appforms/internal/templates/component"
	"appforms/internal/templates/metrics"
	dErrors "appforms/pkg/domain-errors"
	"appforms/pkg/platform/sentinel"
)

// Service serves conversions and the template catalog.
type Service struct {
	parser  *Parser
	catalog *Catalog
	loader  *Loader
	paths   []string
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLoader makes Reload read the catalog from paths.
func WithLoader(loader *Loader, paths ...string) Option {
	return func(s *Service) {
		s.loader = loader
		s.paths = paths
	}
}

// NewService constructs a Service over parser and catalog.
func NewService(parser *Parser, catalog *Catalog, opts ...Option) *Service {
	s := &Service{
		parser:  parser,
		catalog: catalog,
		logger:  zap.NewNop(),
		tracer:  otel.Tracer("appforms.templates.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConvertComponent builds one component tree from a decoded document.
func (s *Service) ConvertComponent(ctx context.Context, doc map[string]any) (component.Component, error) {
	ctx, span := s.tracer.Start(ctx, "Service.ConvertComponent")
	defer span.End()
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "conversion cancelled")
	}

	start := time.Now()
	c, err := s.parser.Registry().Convert(doc)
	s.metrics.ObserveConversion(time.Since(start))
	if err != nil {
		s.recordFailure(span, err)
		return nil, err
	}
	s.recordTree(span, c)
	return c, nil
}

// ValidateTemplate parses a whole template document without adding it to the
// catalog.
func (s *Service) ValidateTemplate(ctx context.Context, doc map[string]any) (*Template, error) {
	ctx, span := s.tracer.Start(ctx, "Service.ValidateTemplate")
	defer span.End()
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "validation cancelled")
	}

	start := time.Now()
	t, err := s.parser.ParseDocument(doc)
	s.metrics.ObserveConversion(time.Since(start))
	if err != nil {
		s.recordFailure(span, err)
		return nil, err
	}
	for _, c := range t.Components {
		s.recordTree(span, c)
	}
	span.SetAttributes(attribute.String("template.id", t.ID))
	return t, nil
}

// ListTemplates summarizes the catalog in id order.
func (s *Service) ListTemplates(ctx context.Context) []Summary {
	list := s.catalog.List(ctx)
	out := make([]Summary, 0, len(list))
	for _, t := range list {
		out = append(out, t.Summary())
	}
	return out
}

// GetTemplate returns the catalog template with the id. The result is shared
// and must not be modified.
func (s *Service) GetTemplate(ctx context.Context, id string) (*Template, error) {
	t, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "template not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load template")
	}
	return t, nil
}

// CloneComponent copies the subtree rooted at componentID out of a template
// with its database ids cleared, ready to be attached to a new answer
// request. With regenerate the copy also gets fresh component ids.
func (s *Service) CloneComponent(ctx context.Context, templateID, componentID string, regenerate bool) (component.Component, error) {
	t, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	found, ok := t.FindComponent(componentID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "component not found in template")
	}
	clone := component.Clone(found, regenerate)

	s.logger.Info("cloned template component",
		zap.String("template_id", templateID),
		zap.String("component_id", componentID),
		zap.Bool("regenerate", regenerate),
		zap.Int("nodes", component.Count(clone)),
	)
	return clone, nil
}

// Reload reads the configured template paths and swaps the catalog. On any
// failure the previous catalog stays in place.
func (s *Service) Reload(ctx context.Context) error {
	if s.loader == nil {
		return nil
	}
	loaded, err := s.loader.Load(ctx, s.paths...)
	if err == nil {
		err = s.catalog.Replace(loaded)
	}
	if err != nil {
		s.metrics.IncrementReload(false)
		s.logger.Error("template catalog reload failed, keeping previous catalog",
			zap.Strings("paths", s.paths),
			zap.Error(err),
		)
		return err
	}

	s.metrics.IncrementReload(true)
	s.metrics.SetTemplatesLoaded(s.catalog.Len())
	s.logger.Info("template catalog reloaded", zap.Int("templates", s.catalog.Len()))
	return nil
}

func (s *Service) recordTree(span trace.Span, c component.Component) {
	nodes := 0
	component.Walk(c, func(n component.Component) bool {
		nodes++
		s.metrics.IncrementConverted(string(n.Type()))
		return true
	})
	span.SetAttributes(
		attribute.String("component.type", string(c.Type())),
		attribute.Int("component.nodes", nodes),
	)
}

func (s *Service) recordFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "conversion failed")

	var perr *component.ParseError
	if errors.As(err, &perr) {
		s.metrics.IncrementFailure(string(perr.Type))
		s.logger.Debug("template conversion rejected",
			zap.String("type", string(perr.Type)),
			zap.Strings("fields", perr.Fields),
			zap.String("reason", perr.Reason),
		)
		return
	}
	s.metrics.IncrementFailure("")
}
