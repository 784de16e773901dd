package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"appforms/internal/templates"
	"appforms/internal/templates/component"
	dErrors "appforms/pkg/domain-errors"
	"appforms/pkg/platform/httputil"
	"appforms/pkg/requestcontext"
)

// maxDocumentBytes bounds a request body holding a template document.
const maxDocumentBytes = 4 << 20

// Service defines the template operations the handler exposes.
type Service interface {
	ConvertComponent(ctx context.Context, doc map[string]any) (component.Component, error)
	ValidateTemplate(ctx context.Context, doc map[string]any) (*templates.Template, error)
	ListTemplates(ctx context.Context) []templates.Summary
	GetTemplate(ctx context.Context, id string) (*templates.Template, error)
	CloneComponent(ctx context.Context, templateID, componentID string, regenerate bool) (component.Component, error)
}

// Handler wires template endpoints to the template service.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// New constructs a template handler with its dependencies.
func New(service Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts template endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/components/convert", h.HandleConvert)
	r.Post("/templates/validate", h.HandleValidate)
	r.Get("/templates", h.HandleList)
	r.Get("/templates/{templateID}", h.HandleGet)
	r.Post("/templates/{templateID}/components/{componentID}/clone", h.HandleClone)
}

// HandleConvert handles POST /components/convert requests.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.service.ConvertComponent(ctx, doc)
	if err != nil {
		h.fail(ctx, w, "component conversion failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleValidate handles POST /templates/validate requests.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, ok := h.decode(w, r)
	if !ok {
		return
	}

	t, err := h.service.ValidateTemplate(ctx, doc)
	if err != nil {
		h.fail(ctx, w, "template validation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

// HandleList handles GET /templates requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Templates: h.service.ListTemplates(r.Context())})
}

// HandleGet handles GET /templates/{templateID} requests. With sort=title the
// components come back ordered by title.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := h.service.GetTemplate(ctx, chi.URLParam(r, "templateID"))
	if err != nil {
		h.fail(ctx, w, "template lookup failed", err)
		return
	}

	switch order := r.URL.Query().Get("sort"); order {
	case "":
	case "title":
		t = t.Copy()
		t.Sort(templates.SortByTitle)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sort must be title"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

// HandleClone handles POST /templates/{templateID}/components/{componentID}/clone
// requests.
func (h *Handler) HandleClone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regenerate := false
	if raw := r.URL.Query().Get("regenerate"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "regenerate must be true or false"))
			return
		}
		regenerate = parsed
	}

	c, err := h.service.CloneComponent(ctx, chi.URLParam(r, "templateID"), chi.URLParam(r, "componentID"), regenerate)
	if err != nil {
		h.fail(ctx, w, "component clone failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// decode reads one JSON or YAML document from the body, picking the format
// from the Content-Type.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	format := templates.FormatJSON
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mediaType {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = templates.FormatYAML
		}
	}

	body := http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	doc, err := templates.Decode(body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = dErrors.New(dErrors.CodeBadRequest, "template document is too large")
		}
		h.logger.Debug("rejected request body",
			zap.String("request_id", requestcontext.RequestID(r.Context())),
			zap.Error(err),
		)
		httputil.WriteError(w, err)
		return nil, false
	}
	return doc, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestcontext.RequestID(ctx)),
		zap.Error(err),
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.Error(msg, fields...)
	} else {
		h.logger.Info(msg, fields...)
	}
	httputil.WriteError(w, err)
}
