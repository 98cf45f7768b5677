package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/registry"
)

// ImportProvider is the external commit service: it durably applies approved
// rows and owns the snapshot history used for undo/redo. Commit retries with
// the same batch id are assumed idempotent server-side; the engine never
// dedupes client-side.
type ImportProvider interface {
	Commit(ctx context.Context, payload CommitPayload) (*CommitResult, error)
	Snapshots(ctx context.Context, batchID string) ([]Snapshot, error)
	Restore(ctx context.Context, snapshotID string) (*RestoreResult, error)
	Reapply(ctx context.Context, snapshotID string) (*ReapplyResult, error)
}

// HTTPImportProvider implements ImportProvider against the commit service API
type HTTPImportProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Metrics *metrics.Registry
}

// NewImportProvider creates the HTTP client for the commit service
func NewImportProvider(cfg *config.Config, reg *metrics.Registry) ImportProvider {
	return &HTTPImportProvider{
		BaseURL: cfg.ImportBaseURL,
		APIKey:  cfg.ImportAPIKey,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
		Metrics: reg,
	}
}

func (p *HTTPImportProvider) Commit(ctx context.Context, payload CommitPayload) (*CommitResult, error) {
	endpoint := p.BaseURL + p.scope(payload.EntityType, payload.AircraftID) + "/import"
	var result CommitResult
	if err := p.doPost(ctx, "commit", endpoint, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *HTTPImportProvider) Snapshots(ctx context.Context, batchID string) ([]Snapshot, error) {
	endpoint := fmt.Sprintf("%s/import/snapshots?batch_id=%s", p.BaseURL, url.QueryEscape(batchID))
	var snapshots []Snapshot
	if err := p.doGet(ctx, "snapshots", endpoint, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (p *HTTPImportProvider) Restore(ctx context.Context, snapshotID string) (*RestoreResult, error) {
	endpoint := fmt.Sprintf("%s/import/snapshots/%s/restore", p.BaseURL, url.PathEscape(snapshotID))
	var result RestoreResult
	if err := p.doPost(ctx, "restore", endpoint, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *HTTPImportProvider) Reapply(ctx context.Context, snapshotID string) (*ReapplyResult, error) {
	endpoint := fmt.Sprintf("%s/import/snapshots/%s/reapply", p.BaseURL, url.PathEscape(snapshotID))
	var result ReapplyResult
	if err := p.doPost(ctx, "reapply", endpoint, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *HTTPImportProvider) scope(entityType registry.EntityType, aircraftID string) string {
	if entityType == registry.EntityComponent && aircraftID != "" {
		return "/aircraft/" + url.PathEscape(aircraftID) + "/components"
	}
	return ""
}

func (p *HTTPImportProvider) doPost(ctx context.Context, call, endpoint string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return p.wrap(call, 0, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return p.wrap(call, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(call, req, out)
}

func (p *HTTPImportProvider) doGet(ctx context.Context, call, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return p.wrap(call, 0, err)
	}
	return p.do(call, req, out)
}

func (p *HTTPImportProvider) do(call string, req *http.Request, out interface{}) error {
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	start := time.Now()
	resp, err := p.Client.Do(req)
	if p.Metrics != nil {
		p.Metrics.ProviderLatency.WithLabelValues("import", call).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		p.countError(call)
		return p.wrap(call, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.countError(call)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return p.wrap(call, resp.StatusCode, fmt.Errorf("unexpected response: %s", string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		p.countError(call)
		return p.wrap(call, resp.StatusCode, fmt.Errorf("malformed response body: %w", err))
	}
	return nil
}

func (p *HTTPImportProvider) countError(call string) {
	if p.Metrics != nil {
		p.Metrics.ProviderErrors.WithLabelValues("import", call).Inc()
	}
}

func (p *HTTPImportProvider) wrap(call string, status int, err error) error {
	return &ProviderError{Provider: "import", Call: call, Status: status, Message: err.Error()}
}
