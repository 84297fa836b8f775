package lotlookup_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asn856/internal/services"
	"asn856/internal/services/lotlookup"
)

func TestNewRequiresAbsoluteURL(t *testing.T) {
	for _, base := range []string{"", "   ", "lots.example.com"} {
		if _, err := lotlookup.New(base); err == nil {
			t.Fatalf("expected error for base url %q", base)
		}
	}
}

func TestExpirationSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("lot"); got != "2230809" {
			t.Errorf("expected lot query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Path != "/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lot":"2230809","expiration":"2025-08-30"}`))
	}))
	t.Cleanup(server.Close)

	client, err := lotlookup.New(server.URL + "/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	exp, err := client.Expiration(context.Background(), "2230809")
	if err != nil {
		t.Fatalf("Expiration returned error: %v", err)
	}
	if exp != "2025-08-30" {
		t.Fatalf("unexpected expiration %q", exp)
	}
}

func TestExpirationMissingField(t *testing.T) {
	for _, body := range []string{`{}`, `{"expiration":null}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		client, err := lotlookup.New(server.URL)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		exp, err := client.Expiration(context.Background(), "999")
		server.Close()
		if err != nil {
			t.Fatalf("body %s: unexpected error %v", body, err)
		}
		if exp != "" {
			t.Fatalf("body %s: expected empty expiration, got %q", body, exp)
		}
	}
}

func TestExpirationHTTPError(t *testing.T) {
	tests := []struct {
		status int
		marker error
	}{
		{http.StatusNotFound, services.ErrNotFound},
		{http.StatusInternalServerError, services.ErrExternalService},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		client, err := lotlookup.New(server.URL)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		_, err = client.Expiration(context.Background(), "123")
		server.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if !errors.Is(err, tt.marker) {
			t.Fatalf("status %d: expected marker %v, got %v", tt.status, tt.marker, err)
		}
	}
}

func TestExpirationMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(server.Close)

	client, err := lotlookup.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Expiration(context.Background(), "123"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestExpirationNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := lotlookup.New(url)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Expiration(context.Background(), "123")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestExpirationTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, err := lotlookup.New(server.URL, lotlookup.WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Expiration(context.Background(), "123")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}

func TestExpirationRejectsEmptyLot(t *testing.T) {
	client, err := lotlookup.New("https://lots.example.com/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Expiration(context.Background(), " ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
