package generator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/khanglvm/suggest-engine/internal/activity"
)

func TestHTTPClient_Success(t *testing.T) {
	var gotAuth string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("server could not decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Night market","description":"Graze the stalls","category":"Foodie","cost":"$","duration":"2 hours"}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPConfig{Endpoint: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	s, err := c.Generate(context.Background(), Prompt{Text: "one activity"}, SuggestionSchema())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if s.Title != "Night market" || s.Cost != activity.CostLow {
		t.Errorf("unexpected suggestion: %+v", s)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Prompt.Text != "one activity" || gotBody.Schema.Type != "object" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestHTTPClient_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		transient bool
	}{
		{http.StatusInternalServerError, ErrNetwork, true},
		{http.StatusTooManyRequests, ErrNetwork, true},
		{http.StatusGatewayTimeout, ErrTimeout, true},
		{http.StatusBadRequest, nil, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c, _ := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})
			_, err := c.Generate(context.Background(), Prompt{}, SuggestionSchema())
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if IsTransient(err) != tt.transient {
				t.Errorf("IsTransient(%v) = %v, want %v", err, IsTransient(err), tt.transient)
			}
		})
	}
}

func TestHTTPClient_UndecodableBodyIsValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c, _ := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})
	_, err := c.Generate(context.Background(), Prompt{}, SuggestionSchema())

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if IsTransient(err) {
		t.Error("validation errors must not be transient")
	}
}

func TestHTTPClient_DeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, Prompt{}, SuggestionSchema())
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestHTTPClient_UnreachableIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := NewHTTPClient(HTTPConfig{Endpoint: url})
	_, err := c.Generate(context.Background(), Prompt{}, SuggestionSchema())
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestNewHTTPClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewHTTPClient(HTTPConfig{}); err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Errorf("expected endpoint error, got %v", err)
	}
}
