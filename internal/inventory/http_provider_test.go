package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ruapotato/hivematrix-ledger/internal/config"
	inventorydomain "github.com/ruapotato/hivematrix-ledger/internal/inventory/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newHTTPProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPProvider(config.Config{
		InventoryBaseURL: srv.URL,
		InventoryTimeout: 2 * time.Second,
	}, zaptest.NewLogger(t))
}

func TestHTTPProvider_Counts(t *testing.T) {
	p := newHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/counts/ACC-100", r.URL.Path)
		assert.Equal(t, "2026", r.URL.Query().Get("year"))
		assert.Equal(t, "8", r.URL.Query().Get("month"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"counts":{"workstation":40,"server":3,"toaster":9}}`))
	})

	pd, _ := period.New(2026, 8)
	counts, err := p.Counts(context.Background(), "ACC-100", pd)
	require.NoError(t, err)

	// Unknown kinds from the upstream are skipped, never billed.
	assert.Equal(t, inventorydomain.Counts{
		plandomain.UnitWorkstation: 40,
		plandomain.UnitServer:      3,
	}, counts)
}

func TestHTTPProvider_ServerErrorIsUnavailable(t *testing.T) {
	p := newHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	pd, _ := period.New(2026, 8)
	_, err := p.Counts(context.Background(), "ACC-100", pd)
	assert.ErrorIs(t, err, inventorydomain.ErrUnavailable)
}

func TestHTTPProvider_MalformedBodyIsUnavailable(t *testing.T) {
	p := newHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"counts":`))
	})

	pd, _ := period.New(2026, 8)
	_, err := p.Counts(context.Background(), "ACC-100", pd)
	assert.ErrorIs(t, err, inventorydomain.ErrUnavailable)
}

func TestHTTPProvider_ConnectionRefusedIsUnavailable(t *testing.T) {
	p := NewHTTPProvider(config.Config{
		InventoryBaseURL: "http://127.0.0.1:1",
		InventoryTimeout: 500 * time.Millisecond,
	}, zaptest.NewLogger(t))

	pd, _ := period.New(2026, 8)
	_, err := p.Counts(context.Background(), "ACC-100", pd)
	assert.ErrorIs(t, err, inventorydomain.ErrUnavailable)
}
