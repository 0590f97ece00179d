package oracles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dwellwise/leasing-service/internal/utils"
)

const defaultOracleTimeout = 3 * time.Second

type httpInvoiceLedger struct {
	baseURL string
	client  *http.Client
}

// NewHTTPInvoiceLedger talks to the invoicing service:
// GET {base}/api/v1/invoices/pending?unit_id={id} → {"pending": bool}
func NewHTTPInvoiceLedger(baseURL string, timeout time.Duration) InvoiceLedger {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &httpInvoiceLedger{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpInvoiceLedger) HasPendingInvoice(ctx context.Context, unitID uuid.UUID) (bool, error) {
	var body struct {
		Pending bool `json:"pending"`
	}
	url := fmt.Sprintf("%s/api/v1/invoices/pending?unit_id=%s", c.baseURL, unitID)
	if err := getJSON(ctx, c.client, url, &body); err != nil {
		return false, err
	}
	return body.Pending, nil
}

type httpMaintenanceTracker struct {
	baseURL string
	client  *http.Client
}

// NewHTTPMaintenanceTracker talks to the maintenance service:
// GET {base}/api/v1/tickets/open?unit_id={id} → {"open": bool}
func NewHTTPMaintenanceTracker(baseURL string, timeout time.Duration) MaintenanceTracker {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &httpMaintenanceTracker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpMaintenanceTracker) HasOpenTicket(ctx context.Context, unitID uuid.UUID) (bool, error) {
	var body struct {
		Open bool `json:"open"`
	}
	url := fmt.Sprintf("%s/api/v1/tickets/open?unit_id=%s", c.baseURL, unitID)
	if err := getJSON(ctx, c.client, url, &body); err != nil {
		return false, err
	}
	return body.Open, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d from %s", utils.ErrOracleUnavailable, resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
