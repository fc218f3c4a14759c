package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/zag-shortener/internal/shortener"
	"go.uber.org/zap"
)

const (
	msgURLRequired   = "URL is required"
	msgInvalidURL    = "Invalid URL format. Please enter a valid URL (e.g., www.example.com or https://www.example.com)"
	msgURLNotFound   = "URL not found"
	msgDatabaseError = "Database error: Please check database connection"
	msgServerError   = "Server error: "
)

// URLService creates and resolves short URLs.
type URLService interface {
	Shorten(ctx context.Context, rawURL string) (*shortener.Mapping, error)
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Mapping, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service URLService
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service URLService, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		logger:  logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for logging.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	meta := RequestMetaFromContext(ctx)
	h.logger.Info("received url",
		zap.String("url", req.Body.URL),
		zap.String("requestId", meta.RequestID),
	)

	mapping, err := h.service.Shorten(ctx, req.Body.URL)
	if err != nil {
		return nil, h.toHTTPError("shorten", meta, err)
	}

	resp := &CreateShortURLResponse{}
	resp.Body.ShortURL = string(mapping.Code)

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)
	h.logger.Info("looking up short url",
		zap.String("code", req.Code),
		zap.String("requestId", meta.RequestID),
	)

	mapping, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.toHTTPError("redirect", meta, err)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: mapping.OriginalURL,
	}, nil
}

// toHTTPError maps service errors to the status and message returned to clients.
func (h *URLHandler) toHTTPError(op string, meta RequestMeta, err error) error {
	switch {
	case errors.Is(err, shortener.ErrURLRequired):
		return huma.Error400BadRequest(msgURLRequired)
	case errors.Is(err, shortener.ErrInvalidURLFormat):
		return huma.Error400BadRequest(msgInvalidURL)
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound(msgURLNotFound)
	case shortener.IsStoreError(err):
		h.logger.Error("store failure",
			zap.String("op", op),
			zap.String("requestId", meta.RequestID),
			zap.Error(err),
		)

		return huma.Error500InternalServerError(msgDatabaseError)
	default:
		h.logger.Error("unexpected failure",
			zap.String("op", op),
			zap.String("requestId", meta.RequestID),
			zap.Error(err),
		)

		return huma.Error500InternalServerError(msgServerError + err.Error())
	}
}
