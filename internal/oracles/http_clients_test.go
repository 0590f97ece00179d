package oracles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dwellwise/leasing-service/internal/utils"
)

func TestInvoiceLedgerReadsPendingFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/invoices/pending", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("unit_id"))
		w.Write([]byte(`{"pending":true}`))
	}))
	defer srv.Close()

	ledger := NewHTTPInvoiceLedger(srv.URL, time.Second)
	pending, err := ledger.HasPendingInvoice(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, pending)
}

func TestMaintenanceTrackerReadsOpenFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/tickets/open", r.URL.Path)
		w.Write([]byte(`{"open":false}`))
	}))
	defer srv.Close()

	tracker := NewHTTPMaintenanceTracker(srv.URL, time.Second)
	open, err := tracker.HasOpenTicket(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, open)
}

func TestOracleErrorStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ledger := NewHTTPInvoiceLedger(srv.URL, time.Second)
	_, err := ledger.HasPendingInvoice(context.Background(), uuid.New())
	require.ErrorIs(t, err, utils.ErrOracleUnavailable)
}
