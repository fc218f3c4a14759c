package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/zag-shortener/internal/store"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// DatabaseState reports the state of the primary store connection.
type DatabaseState interface {
	State() store.State
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler handles health check operations.
type Handler struct {
	database DatabaseState
	cache    Checker
}

// NewHandler creates a new health handler. A nil cache is reported as disabled.
func NewHandler(database DatabaseState, cache Checker) *Handler {
	return &Handler{database: database, cache: cache}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"   enum:"ok,degraded"`
		Database string `json:"database" enum:"connected,connecting,disconnected"`
		Cache    string `json:"cache"    enum:"healthy,unhealthy,disabled"`
	}
}

// Check reports the database connection state and cache reachability.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	state := h.database.State()
	resp.Body.Database = state.String()

	if state != store.StateConnected {
		resp.Body.Status = "degraded"
	}

	switch {
	case h.cache == nil:
		resp.Body.Cache = "disabled"
	case h.cache.Ping(ctx) != nil:
		resp.Body.Cache = "unhealthy"
		resp.Body.Status = "degraded"
	default:
		resp.Body.Cache = "healthy"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Report database and cache health",
	}, h.Check)
}
