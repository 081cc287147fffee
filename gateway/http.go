package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"draftsync/domain"
)

// HTTPGateway talks to the document API over JSON with a bearer token.
type HTTPGateway struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPGateway(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type createRequest struct {
	Content string `json:"content"`
}

func (g *HTTPGateway) Create(ctx context.Context, content string) (*domain.Document, error) {
	var doc domain.Document
	err := g.do(ctx, http.MethodPost, "/documents", createRequest{Content: content}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (g *HTTPGateway) Get(ctx context.Context, id uint64) (*domain.Document, error) {
	var doc domain.Document
	err := g.do(ctx, http.MethodGet, fmt.Sprintf("/documents/%d", id), nil, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (g *HTTPGateway) Update(ctx context.Context, id uint64, patch domain.DocumentPatch) (*domain.Document, error) {
	var doc domain.Document
	err := g.do(ctx, http.MethodPut, fmt.Sprintf("/documents/%d", id), patch, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (g *HTTPGateway) Delete(ctx context.Context, id uint64) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d", id), nil, nil)
}

func (g *HTTPGateway) List(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := g.do(ctx, http.MethodGet, "/documents", nil, &docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
