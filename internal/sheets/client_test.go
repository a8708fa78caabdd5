package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/opengrove/sheetset/internal/shared"
)

type fakePacer struct {
	waits int
	err   error
}

func (p *fakePacer) Wait(ctx context.Context) error {
	p.waits++
	return p.err
}

// recordedRequest captures one request seen by the stub API server.
type recordedRequest struct {
	method string
	path   string
	query  string
	body   []byte
}

func newStubServer(t *testing.T, status int, readValues [][]interface{}) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   body,
		})

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error":{"code":%d,"message":"stub failure","status":"STUB"}}`, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"range":          "'Playlist'!A:B",
			"majorDimension": "ROWS",
		}
		if readValues != nil {
			resp["values"] = readValues
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestClient(t *testing.T, srv *httptest.Server, pacer Pacer) *Client {
	t.Helper()

	client, err := NewClient(context.Background(), Options{
		SpreadsheetID: "sheet123",
		Tab:           "Playlist",
		TokenSource:   oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
		Pacer:         pacer,
		Endpoint:      srv.URL,
		HTTPClient:    srv.Client(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires spreadsheet id", func(t *testing.T) {
		_, err := NewClient(context.Background(), Options{Tab: "Playlist"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("requires tab", func(t *testing.T) {
		_, err := NewClient(context.Background(), Options{SpreadsheetID: "sheet123"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestClient_ReadRows(t *testing.T) {
	t.Run("returns rows as strings", func(t *testing.T) {
		srv, _ := newStubServer(t, http.StatusOK, [][]interface{}{
			{"Song UUID", "Selected"},
			{"a", "TRUE"},
			{"b", "FALSE"},
		})
		client := newTestClient(t, srv, nil)

		rows, err := client.ReadRows(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := [][]string{
			{"Song UUID", "Selected"},
			{"a", "TRUE"},
			{"b", "FALSE"},
		}
		if !reflect.DeepEqual(rows, want) {
			t.Errorf("ReadRows() = %v, want %v", rows, want)
		}
	})

	t.Run("renders numeric cells without decoration", func(t *testing.T) {
		srv, _ := newStubServer(t, http.StatusOK, [][]interface{}{
			{"Song UUID", "Selected"},
			{float64(42), float64(1)},
		})
		client := newTestClient(t, srv, nil)

		rows, err := client.ReadRows(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rows[1][0] != "42" || rows[1][1] != "1" {
			t.Errorf("unexpected numeric rendering: %v", rows[1])
		}
	})

	t.Run("empty sheet yields no rows", func(t *testing.T) {
		srv, _ := newStubServer(t, http.StatusOK, nil)
		client := newTestClient(t, srv, nil)

		rows, err := client.ReadRows(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("expected 0 rows, got %d", len(rows))
		}
	})

	t.Run("waits on the pacer before the request", func(t *testing.T) {
		srv, _ := newStubServer(t, http.StatusOK, nil)
		pacer := &fakePacer{}
		client := newTestClient(t, srv, pacer)

		if _, err := client.ReadRows(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if pacer.waits != 1 {
			t.Errorf("expected 1 pacer wait, got %d", pacer.waits)
		}
	})

	t.Run("pacer failure suppresses the request", func(t *testing.T) {
		srv, requests := newStubServer(t, http.StatusOK, nil)
		pacer := &fakePacer{err: context.Canceled}
		client := newTestClient(t, srv, pacer)

		if _, err := client.ReadRows(context.Background()); !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		if len(*requests) != 0 {
			t.Errorf("expected 0 requests, got %d", len(*requests))
		}
	})
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "permission denied", status: http.StatusForbidden, want: shared.ErrAccessDenied},
		{name: "quota exhausted", status: http.StatusTooManyRequests, want: shared.ErrAccessDenied},
		{name: "credential rejected", status: http.StatusUnauthorized, want: shared.ErrAuthExpired},
		{name: "server failure", status: http.StatusInternalServerError, want: shared.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newStubServer(t, tt.status, nil)
			client := newTestClient(t, srv, nil)

			_, err := client.ReadRows(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadRows() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_WriteRows(t *testing.T) {
	rows := [][]string{
		{"Song UUID", "Selected"},
		{"a", "TRUE"},
	}

	t.Run("without token source writes are rejected locally", func(t *testing.T) {
		srv, requests := newStubServer(t, http.StatusOK, nil)

		client, err := NewClient(context.Background(), Options{
			SpreadsheetID: "sheet123",
			Tab:           "Playlist",
			Endpoint:      srv.URL,
		})
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		// Drop the write service the way a key-only deployment would have it.
		client.write = nil

		if err := client.WriteRows(context.Background(), rows); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
		if len(*requests) != 0 {
			t.Errorf("expected 0 requests, got %d", len(*requests))
		}
	})

	t.Run("clears then updates the full range", func(t *testing.T) {
		srv, requests := newStubServer(t, http.StatusOK, nil)
		client := newTestClient(t, srv, nil)

		if err := client.WriteRows(context.Background(), rows); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(*requests) != 2 {
			t.Fatalf("expected 2 requests, got %d", len(*requests))
		}
		if !strings.HasSuffix((*requests)[0].path, ":clear") {
			t.Errorf("first request should clear, got %s", (*requests)[0].path)
		}
		second := (*requests)[1]
		if second.method != http.MethodPut {
			t.Errorf("second request method = %s, want PUT", second.method)
		}
		if !strings.Contains(second.query, "valueInputOption=RAW") {
			t.Errorf("update should use RAW input, got query %s", second.query)
		}

		var vr struct {
			Values [][]string `json:"values"`
		}
		if err := json.Unmarshal(second.body, &vr); err != nil {
			t.Fatalf("failed to decode update payload: %v", err)
		}
		if !reflect.DeepEqual(vr.Values, rows) {
			t.Errorf("update payload = %v, want %v", vr.Values, rows)
		}
	})

	t.Run("each outgoing call is paced", func(t *testing.T) {
		srv, _ := newStubServer(t, http.StatusOK, nil)
		pacer := &fakePacer{}
		client := newTestClient(t, srv, pacer)

		if err := client.WriteRows(context.Background(), rows); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if pacer.waits != 2 {
			t.Errorf("expected 2 pacer waits, got %d", pacer.waits)
		}
	})

	t.Run("write failure surfaces the mapped kind", func(t *testing.T) {
		srv, _ := newStubServer(t, http.StatusForbidden, nil)
		client := newTestClient(t, srv, nil)

		if err := client.WriteRows(context.Background(), rows); !errors.Is(err, shared.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})
}
