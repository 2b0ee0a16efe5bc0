package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	userAgent = "EV-Charger-Search-Import/1.0"

	// DefaultFetchTimeout bounds a single upstream request.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultMaxBodyBytes caps the upstream body size.
	DefaultMaxBodyBytes int64 = 10 << 20
)

// Payload is the validated upstream envelope.
type Payload struct {
	Items []RawRecord
}

type upstreamEnvelope struct {
	Success any `json:"success"`
	Data    any `json:"data"`
	Error   any `json:"error"`
}

// Fetcher retrieves import payloads from admin supplied URLs. It performs a
// single attempt per call.
type Fetcher struct {
	httpClient   *http.Client
	maxBodyBytes int64
}

// NewFetcher constructs a Fetcher. A nil client gets DefaultFetchTimeout and
// a non-positive limit falls back to DefaultMaxBodyBytes.
func NewFetcher(client *http.Client, maxBodyBytes int64) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{httpClient: client, maxBodyBytes: maxBodyBytes}
}

// Fetch downloads and validates the upstream payload at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Payload, error) {
	target, err := parseSourceURL(rawURL)
	if err != nil {
		return Payload{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrUpstreamUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, &HTTPStatusError{StatusCode: resp.StatusCode, StatusText: reasonPhrase(resp)}
	}
	if !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/json") {
		return Payload{}, ErrUnexpectedContentType
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrUpstreamUnreachable, err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return Payload{}, ErrPayloadTooLarge
	}
	return decodePayload(body)
}

// reasonPhrase returns the status text sent by the upstream, falling back to
// the canonical text when the status line carries none.
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

func parseSourceURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

func decodePayload(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var env upstreamEnvelope
	if err := dec.Decode(&env); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidJSONBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Payload{}, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidJSONBody)
	}

	if ok, _ := env.Success.(bool); !ok {
		msg, _ := env.Error.(string)
		return Payload{}, &ApplicationError{Message: msg}
	}
	data, _ := env.Data.([]any)
	if len(data) == 0 {
		return Payload{}, ErrEmptyImportPayload
	}

	items := make([]RawRecord, len(data))
	for i, raw := range data {
		if obj, ok := raw.(map[string]any); ok {
			items[i] = RawRecord(obj)
		}
	}
	return Payload{Items: items}, nil
}
