package shortener_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/serroba/zag-shortener/internal/shortener"
	"github.com/serroba/zag-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBackend = errors.New("connection reset")

// sequenceGenerator returns the configured codes in order, then repeats the last.
type sequenceGenerator struct {
	codes []shortener.Code
	calls int
}

func (g *sequenceGenerator) Generate() shortener.Code {
	i := min(g.calls, len(g.codes)-1)
	g.calls++

	return g.codes[i]
}

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (f *failingStore) Save(_ context.Context, _ *shortener.Mapping) error {
	return f.err
}

func (f *failingStore) GetByCode(_ context.Context, _ shortener.Code) (*shortener.Mapping, error) {
	return nil, f.err
}

func newMapping(code, url string) *shortener.Mapping {
	return &shortener.Mapping{
		Code:        shortener.Code(code),
		OriginalURL: url,
		CreatedAt:   time.Now(),
	}
}

func newService(t *testing.T, repo shortener.Repository) *shortener.Service {
	t.Helper()

	gen, err := shortener.NewDefaultGenerator()
	require.NoError(t, err)

	return shortener.NewService(repo, gen, zap.NewNop())
}

func TestService_Shorten(t *testing.T) {
	t.Run("normalizes and stores the url", func(t *testing.T) {
		mem := store.NewMemoryStore()
		svc := newService(t, mem)

		mapping, err := svc.Shorten(context.Background(), "www.example.com")

		require.NoError(t, err)
		assert.Equal(t, "https://www.example.com", mapping.OriginalURL)
		assert.True(t, strings.HasSuffix(string(mapping.Code), shortener.CodeSuffix))
		assert.False(t, mapping.CreatedAt.IsZero())

		stored, err := mem.GetByCode(context.Background(), mapping.Code)
		require.NoError(t, err)
		assert.Equal(t, mapping.OriginalURL, stored.OriginalURL)
	})

	t.Run("creates a new code on every call", func(t *testing.T) {
		svc := newService(t, store.NewMemoryStore())

		first, err1 := svc.Shorten(context.Background(), "example.com")
		second, err2 := svc.Shorten(context.Background(), "example.com")

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, first.Code, second.Code)
	})

	t.Run("returns ErrURLRequired for empty input", func(t *testing.T) {
		mem := store.NewMemoryStore()
		svc := newService(t, mem)

		mapping, err := svc.Shorten(context.Background(), "")

		assert.Nil(t, mapping)
		assert.ErrorIs(t, err, shortener.ErrURLRequired)
		assert.Zero(t, mem.Len())
	})

	t.Run("returns ErrInvalidURLFormat for whitespace-only input", func(t *testing.T) {
		mem := store.NewMemoryStore()
		svc := newService(t, mem)

		for _, input := range []string{" ", "   ", "\t\n"} {
			mapping, err := svc.Shorten(context.Background(), input)

			assert.Nil(t, mapping)
			assert.ErrorIs(t, err, shortener.ErrInvalidURLFormat)
			assert.NotErrorIs(t, err, shortener.ErrURLRequired)
		}

		assert.Zero(t, mem.Len())
	})

	t.Run("returns ErrInvalidURLFormat without storing", func(t *testing.T) {
		mem := store.NewMemoryStore()
		svc := newService(t, mem)

		mapping, err := svc.Shorten(context.Background(), "localhost")

		assert.Nil(t, mapping)
		assert.ErrorIs(t, err, shortener.ErrInvalidURLFormat)
		assert.Zero(t, mem.Len())
	})

	t.Run("retries with a new code when the code is taken", func(t *testing.T) {
		mem := store.NewMemoryStore()
		_ = mem.Save(context.Background(), newMapping("taken1-zag-eng", "https://old.example.com"))

		gen := &sequenceGenerator{codes: []shortener.Code{"taken1-zag-eng", "fresh1-zag-eng"}}
		svc := shortener.NewService(mem, gen, zap.NewNop())

		mapping, err := svc.Shorten(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("fresh1-zag-eng"), mapping.Code)
		assert.Equal(t, 2, gen.calls)

		old, _ := mem.GetByCode(context.Background(), "taken1-zag-eng")
		assert.Equal(t, "https://old.example.com", old.OriginalURL)
	})

	t.Run("gives up after MaxCodeAttempts collisions", func(t *testing.T) {
		mem := store.NewMemoryStore()
		_ = mem.Save(context.Background(), newMapping("taken1-zag-eng", "https://old.example.com"))

		gen := &sequenceGenerator{codes: []shortener.Code{"taken1-zag-eng"}}
		svc := shortener.NewService(mem, gen, zap.NewNop())

		mapping, err := svc.Shorten(context.Background(), "example.com")

		assert.Nil(t, mapping)
		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
		assert.Equal(t, shortener.MaxCodeAttempts, gen.calls)
	})

	t.Run("returns store errors unchanged", func(t *testing.T) {
		storeErr := shortener.NewStoreError("save", errBackend)
		svc := newService(t, &failingStore{err: storeErr})

		mapping, err := svc.Shorten(context.Background(), "example.com")

		assert.Nil(t, mapping)
		assert.ErrorIs(t, err, errBackend)
		assert.True(t, shortener.IsStoreError(err))
	})

	t.Run("rejects an empty generated code", func(t *testing.T) {
		mem := store.NewMemoryStore()
		svc := shortener.NewService(mem, &sequenceGenerator{codes: []shortener.Code{""}}, zap.NewNop())

		mapping, err := svc.Shorten(context.Background(), "example.com")

		assert.Nil(t, mapping)
		assert.Error(t, err)
		assert.Zero(t, mem.Len())
	})
}

func TestService_Resolve(t *testing.T) {
	t.Run("round trips a saved mapping", func(t *testing.T) {
		svc := newService(t, store.NewMemoryStore())

		created, err := svc.Shorten(context.Background(), "https://example.com/path")
		require.NoError(t, err)

		got, err := svc.Resolve(context.Background(), created.Code)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/path", got.OriginalURL)
	})

	t.Run("returns ErrNotFound for unknown code", func(t *testing.T) {
		svc := newService(t, store.NewMemoryStore())

		got, err := svc.Resolve(context.Background(), "unknown-code")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestStoreError(t *testing.T) {
	err := shortener.NewStoreError("get", errBackend)

	assert.Equal(t, "store get: connection reset", err.Error())
	assert.ErrorIs(t, err, errBackend)
	assert.False(t, shortener.IsStoreError(errBackend))
}
