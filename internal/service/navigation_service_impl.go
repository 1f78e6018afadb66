package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/sitemenu/internal/navigation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/alexanderramin/sitemenu/internal/service"

// Projection kinds.
const (
	KindMenu = "menu"
	KindPage = "page"
)

type navigationService struct {
	menus    *navigation.MenuProjector
	pages    *navigation.PageProjector
	observer UseCaseObserver
	recorder ProjectionRecorder
	tracer   trace.Tracer
}

// NavigationOption configures the navigation service.
type NavigationOption func(*navigationService)

// WithObserver sets the use-case observer.
func WithObserver(o UseCaseObserver) NavigationOption {
	return func(s *navigationService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithRecorder sets the projection metrics recorder.
func WithRecorder(r ProjectionRecorder) NavigationOption {
	return func(s *navigationService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithTracerProvider sets the provider spans are started from. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) NavigationOption {
	return func(s *navigationService) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

func NewNavigationService(menus navigation.MenuSource, pages navigation.PageSource, opts ...NavigationOption) NavigationService {
	s := &navigationService{
		menus:    navigation.NewMenuProjector(menus),
		pages:    navigation.NewPageProjector(pages),
		observer: NoopUseCaseObserver{},
		recorder: noopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *navigationService) MenuTree(ctx context.Context, req MenuTreeRequest) (tree *navigation.RenderNode, err error) {
	var siteID, siteBase, siteName string
	if req.Site != nil {
		siteID, siteBase, siteName = req.Site.ID, req.Site.BaseURL(), req.Site.Name
	}

	ctx, span := s.tracer.Start(ctx, "navigation.menu", trace.WithAttributes(
		attribute.String("menu.position", req.Position),
		attribute.String("site.name", siteName),
	))
	defer span.End()

	startedAt := time.Now()
	defer func() {
		s.finish(ctx, span, KindMenu, startedAt, tree, err, map[string]any{
			"position": req.Position,
			"site":     siteName,
		})
	}()

	return s.menus.Project(ctx, navigation.MenuRequest{
		Position:           req.Position,
		SiteID:             siteID,
		RequestPath:        req.RequestPath,
		BaseURL:            req.BaseURL,
		SiteBaseURL:        siteBase,
		ChildrenAttributes: req.Attributes,
	})
}

func (s *navigationService) PageTree(ctx context.Context, req PageTreeRequest) (tree *navigation.RenderNode, err error) {
	var siteID, siteName string
	if req.Site != nil {
		siteID, siteName = req.Site.ID, req.Site.Name
	}

	ctx, span := s.tracer.Start(ctx, "navigation.page", trace.WithAttributes(
		attribute.String("page.url", req.URL),
		attribute.String("page.route", req.Route),
		attribute.String("site.name", siteName),
	))
	defer span.End()

	startedAt := time.Now()
	defer func() {
		s.finish(ctx, span, KindPage, startedAt, tree, err, map[string]any{
			"url":   req.URL,
			"route": req.Route,
			"site":  siteName,
		})
	}()

	return s.pages.Project(ctx, navigation.PageRequest{
		SiteID:      siteID,
		URL:         req.URL,
		Route:       req.Route,
		Context:     req.Context,
		RequestPath: req.RequestPath,
		BaseURL:     req.BaseURL,
	})
}

func (s *navigationService) finish(ctx context.Context, span trace.Span, kind string, startedAt time.Time,
	tree *navigation.RenderNode, err error, fields map[string]any) {
	duration := time.Since(startedAt)
	outcome := projectionOutcome(tree, err)

	nodes := 0
	if tree != nil {
		nodes = tree.Count()
	}
	fields["outcome"] = outcome
	fields["nodes"] = nodes

	span.SetAttributes(
		attribute.String("projection.outcome", outcome),
		attribute.Int("projection.nodes", nodes),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.recorder.RecordProjection(kind, outcome, duration, nodes)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "project-" + kind,
		StartedAt: startedAt,
		Duration:  duration,
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func projectionOutcome(tree *navigation.RenderNode, err error) string {
	var cfgErr *navigation.ConfigurationError
	var nfErr *navigation.NotFoundError
	switch {
	case errors.As(err, &cfgErr):
		return OutcomeInvalid
	case errors.As(err, &nfErr):
		return OutcomeNotFound
	case err != nil:
		return OutcomeError
	case tree == nil || !tree.HasChildren():
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}
