package importer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func jsonResponder(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestFetcherSendsIdentifyingHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		jsonResponder(http.StatusOK, `{"success":true,"data":[{"firma":"Acme","acFiyat":9.5},"junk"]}`)(w, r)
	})

	payload, err := NewFetcher(srv.Client(), 0).Fetch(context.Background(), srv.URL+"/prices")
	require.NoError(t, err)
	assert.Equal(t, "EV-Charger-Search-Import/1.0", gotUA)
	assert.Equal(t, "application/json", gotAccept)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, "Acme", payload.Items[0]["firma"])
	assert.Nil(t, payload.Items[1], "non-object items decode to nil records")
}

func TestFetcherErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "http status",
			handler: jsonResponder(http.StatusBadGateway, `{}`),
			want:    ErrUpstreamHTTP,
		},
		{
			name: "html content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(`{"success":true,"data":[{"name":"Acme"}]}`))
			},
			want: ErrUnexpectedContentType,
		},
		{
			name:    "invalid json",
			handler: jsonResponder(http.StatusOK, `{"success":tru`),
			want:    ErrInvalidJSONBody,
		},
		{
			name:    "trailing garbage",
			handler: jsonResponder(http.StatusOK, `{"success":true,"data":[{"name":"Acme"}]} xyz`),
			want:    ErrInvalidJSONBody,
		},
		{
			name:    "two json values",
			handler: jsonResponder(http.StatusOK, `{"success":true,"data":[{"name":"Acme"}]}{}`),
			want:    ErrInvalidJSONBody,
		},
		{
			name:    "success false",
			handler: jsonResponder(http.StatusOK, `{"success":false,"error":"maintenance"}`),
			want:    ErrUpstreamApplication,
		},
		{
			name:    "success truthy but not true",
			handler: jsonResponder(http.StatusOK, `{"success":"yes","data":[{"name":"Acme"}]}`),
			want:    ErrUpstreamApplication,
		},
		{
			name:    "empty data",
			handler: jsonResponder(http.StatusOK, `{"success":true,"data":[]}`),
			want:    ErrEmptyImportPayload,
		},
		{
			name:    "data not array",
			handler: jsonResponder(http.StatusOK, `{"success":true,"data":{"name":"Acme"}}`),
			want:    ErrEmptyImportPayload,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUpstream(t, tt.handler)
			_, err := NewFetcher(srv.Client(), 0).Fetch(context.Background(), srv.URL)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetcherErrorDetails(t *testing.T) {
	srv := newUpstream(t, jsonResponder(http.StatusNotFound, `{}`))
	_, err := NewFetcher(srv.Client(), 0).Fetch(context.Background(), srv.URL)
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "Not Found", statusErr.StatusText)

	srv = newUpstream(t, jsonResponder(http.StatusOK, `{"success":false,"error":"quota exceeded"}`))
	_, err = NewFetcher(srv.Client(), 0).Fetch(context.Background(), srv.URL)
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "quota exceeded", appErr.Message)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetcherKeepsUpstreamReasonPhrase(t *testing.T) {
	tests := []struct {
		status string
		code   int
		want   string
	}{
		{status: "599 Network Connect Timeout Error", code: 599, want: "Network Connect Timeout Error"},
		{status: "503 Back Soon", code: 503, want: "Back Soon"},
		{status: "503", code: 503, want: "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					Status:     tt.status,
					StatusCode: tt.code,
					Header:     http.Header{"Content-Type": []string{"application/json"}},
					Body:       io.NopCloser(strings.NewReader(`{}`)),
					Request:    r,
				}, nil
			})}
			_, err := NewFetcher(client, 0).Fetch(context.Background(), "https://upstream.test/prices")
			var statusErr *HTTPStatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.code, statusErr.StatusCode)
			assert.Equal(t, tt.want, statusErr.StatusText)
		})
	}
}

func TestFetcherAcceptsTrailingWhitespace(t *testing.T) {
	srv := newUpstream(t, jsonResponder(http.StatusOK, "{\"success\":true,\"data\":[{\"name\":\"Acme\"}]}\n  "))
	payload, err := NewFetcher(srv.Client(), 0).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, payload.Items, 1)
}

func TestFetcherRejectsInvalidURLWithoutIO(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path", "ftp://example.com/data.json", "http://"} {
		_, err := NewFetcher(nil, 0).Fetch(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestFetcherUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewFetcher(nil, 0).Fetch(context.Background(), addr)
	assert.ErrorIs(t, err, ErrUpstreamUnreachable)
}

func TestFetcherBodyLimit(t *testing.T) {
	body := `{"success":true,"data":[{"name":"` + strings.Repeat("x", 256) + `"}]}`
	srv := newUpstream(t, jsonResponder(http.StatusOK, body))

	_, err := NewFetcher(srv.Client(), 64).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	_, err = NewFetcher(srv.Client(), int64(len(body))).Fetch(context.Background(), srv.URL)
	assert.NoError(t, err)
}
