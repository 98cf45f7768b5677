package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/registry"
)

// ParseRequest is a file (or corrected OCR text) submitted for preview parsing.
// AircraftID scopes component imports to one airframe; empty for aircraft imports.
type ParseRequest struct {
	EntityType registry.EntityType
	AircraftID string
	Filename   string
	File       io.Reader
	OCRText    string // corrected OCR text re-submitted as a new parse
}

// PreviewProvider is the external preview service: it parses uploads into
// candidate rows with column mapping, summary counts, and formula proposals,
// and serves row pages for windowed sessions.
type PreviewProvider interface {
	Parse(ctx context.Context, req ParseRequest) (*ParseResult, error)
	FetchRows(ctx context.Context, previewID string, aircraftID string, offset, limit int) (*RowsPage, error)
}

// HTTPPreviewProvider implements PreviewProvider against the preview service API
type HTTPPreviewProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Metrics *metrics.Registry
}

// NewPreviewProvider creates the HTTP client for the preview service
func NewPreviewProvider(cfg *config.Config, reg *metrics.Registry) PreviewProvider {
	return &HTTPPreviewProvider{
		BaseURL: cfg.PreviewBaseURL,
		APIKey:  cfg.PreviewAPIKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		Metrics: reg,
	}
}

func (p *HTTPPreviewProvider) Parse(ctx context.Context, req ParseRequest) (*ParseResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if req.OCRText != "" {
		// Corrected OCR text is treated as a new file against the same endpoint
		if err := writer.WriteField("ocr_text", req.OCRText); err != nil {
			return nil, p.wrap("parse", 0, err)
		}
	} else {
		part, err := writer.CreateFormFile("file", req.Filename)
		if err != nil {
			return nil, p.wrap("parse", 0, err)
		}
		if _, err := io.Copy(part, req.File); err != nil {
			return nil, p.wrap("parse", 0, err)
		}
	}
	writer.WriteField("entity_type", string(req.EntityType))
	if req.AircraftID != "" {
		writer.WriteField("aircraft_id", req.AircraftID)
	}
	if err := writer.Close(); err != nil {
		return nil, p.wrap("parse", 0, err)
	}

	endpoint := p.BaseURL + p.scope(req.EntityType, req.AircraftID) + "/preview"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, p.wrap("parse", 0, err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	p.authorize(httpReq)

	var result ParseResult
	if status, err := p.do("parse", httpReq, &result); err != nil {
		return nil, p.wrap("parse", status, err)
	}
	return &result, nil
}

func (p *HTTPPreviewProvider) FetchRows(ctx context.Context, previewID string, aircraftID string, offset, limit int) (*RowsPage, error) {
	scope := ""
	if aircraftID != "" {
		scope = "/aircraft/" + url.PathEscape(aircraftID) + "/components"
	}
	endpoint := fmt.Sprintf("%s%s/preview/%s/rows?offset=%d&limit=%d",
		p.BaseURL, scope, url.PathEscape(previewID), offset, limit)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, p.wrap("fetch_rows", 0, err)
	}
	p.authorize(httpReq)

	var page RowsPage
	if status, err := p.do("fetch_rows", httpReq, &page); err != nil {
		return nil, p.wrap("fetch_rows", status, err)
	}
	return &page, nil
}

func (p *HTTPPreviewProvider) scope(entityType registry.EntityType, aircraftID string) string {
	if entityType == registry.EntityComponent && aircraftID != "" {
		return "/aircraft/" + url.PathEscape(aircraftID) + "/components"
	}
	return ""
}

func (p *HTTPPreviewProvider) authorize(req *http.Request) {
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
}

// do executes the request, decodes a 2xx JSON body into out, and returns the
// status code alongside any error so callers can classify failures.
func (p *HTTPPreviewProvider) do(call string, req *http.Request, out interface{}) (int, error) {
	start := time.Now()
	resp, err := p.Client.Do(req)
	if p.Metrics != nil {
		p.Metrics.ProviderLatency.WithLabelValues("preview", call).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		p.countError(call)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.countError(call)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("unexpected response: %s", string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		p.countError(call)
		return resp.StatusCode, fmt.Errorf("malformed response body: %w", err)
	}
	return resp.StatusCode, nil
}

func (p *HTTPPreviewProvider) countError(call string) {
	if p.Metrics != nil {
		p.Metrics.ProviderErrors.WithLabelValues("preview", call).Inc()
	}
}

func (p *HTTPPreviewProvider) wrap(call string, status int, err error) error {
	return &ProviderError{Provider: "preview", Call: call, Status: status, Message: err.Error()}
}
