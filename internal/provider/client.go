// Package provider talks to the answer-provider HTTP service.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// FieldPrompt carries the composer text.
const FieldPrompt = "text_prompt"

// FieldDocument carries an optional PDF attachment.
const FieldDocument = "document"

const defaultTimeout = 2 * time.Minute

// ErrTransport marks failures to reach the provider or understand its reply.
var ErrTransport = errors.New("answer provider unavailable")

// ProviderError is an error the provider reported in its response body.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Response is a successful ask.
type Response struct {
	Answer      string `json:"answer"`
	Context     string `json:"context"`
	HistoryHTML string `json:"history_html"`
}

// Attachment is a file sent alongside the form.
type Attachment struct {
	Name string
	Data []byte
}

// Request is one submission: the form fields plus an optional document.
type Request struct {
	Fields   url.Values
	Document *Attachment
}

// Asker is the contract the session controller needs.
type Asker interface {
	Ask(ctx context.Context, req Request) (Response, error)
	Discard(ctx context.Context) error
}

// Config controls the HTTP client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is an Asker over HTTP. The session cookie is kept in a jar so the provider can
// keep per-session history.
type Client struct {
	base    string
	timeout time.Duration
	http    *http.Client
}

// New builds a client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid provider URL %q: %w", cfg.BaseURL, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		clone := *httpClient
		clone.Jar = jar
		httpClient = &clone
	}
	return &Client{base: base, timeout: timeout, http: httpClient}, nil
}

// BaseURL reports the provider address.
func (c *Client) BaseURL() string { return c.base }

// Ask posts the form to the provider root.
func (c *Client) Ask(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, contentType, err := encodeForm(req)
	if err != nil {
		return Response{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/", body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}
	var parsed struct {
		Response
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{}, fmt.Errorf("%w: %s: %v", ErrTransport, resp.Status, err)
	}
	if parsed.Error != nil {
		return Response{}, &ProviderError{Status: resp.StatusCode, Message: *parsed.Error}
	}
	if resp.StatusCode >= 400 {
		return Response{}, fmt.Errorf("%w: unexpected status %s", ErrTransport, resp.Status)
	}
	return parsed.Response, nil
}

// Discard asks the provider to drop this session's history. The reply body is ignored.
func (c *Client) Discard(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/reset", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: reset returned %s", ErrTransport, resp.Status)
	}
	return nil
}

func encodeForm(req Request) (io.Reader, string, error) {
	if req.Document == nil {
		return strings.NewReader(req.Fields.Encode()), "application/x-www-form-urlencoded", nil
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, values := range req.Fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return nil, "", err
			}
		}
	}
	name := filepath.Base(req.Document.Name)
	if name == "" || name == "." {
		name = "document.pdf"
	}
	part, err := w.CreateFormFile(FieldDocument, name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Document.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
