package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(baseURL string) ProviderConfig {
	return ProviderConfig{
		Name:       "test",
		Type:       "openai",
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}
}

func TestDoRequest_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Custom"); got != "value" {
			t.Errorf("X-Custom = %q, want value", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want default application/json", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewHTTPProvider(testConfig(server.URL))
	defer p.Close()

	resp, err := p.DoRequest(context.Background(), "POST", server.URL, []byte(`{}`), map[string]string{"X-Custom": "value"})
	if err != nil {
		t.Fatalf("DoRequest: %v", err)
	}
	resp.Body.Close()

	health := p.GetHealth()
	if health.TotalRequests != 1 || health.FailedRequests != 0 {
		t.Errorf("health = %d total / %d failed, want 1/0", health.TotalRequests, health.FailedRequests)
	}
}

func TestDoRequest_AuthErrorNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	p := NewHTTPProvider(testConfig(server.URL))
	defer p.Close()

	_, err := p.DoRequest(context.Background(), "POST", server.URL, nil, nil)
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (no retry)", calls)
	}
}

func TestDoRequest_RateLimitNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "7")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewHTTPProvider(testConfig(server.URL))
	defer p.Close()

	_, err := p.DoRequest(context.Background(), "POST", server.URL, nil, nil)
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rateErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %s, want 7s", rateErr.RetryAfter)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (no retry)", calls)
	}
}

func TestDoRequest_BadRequestNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "malformed", http.StatusBadRequest)
	}))
	defer server.Close()

	p := NewHTTPProvider(testConfig(server.URL))
	defer p.Close()

	_, err := p.DoRequest(context.Background(), "POST", server.URL, nil, nil)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", provErr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (no retry)", calls)
	}
}

func TestDoRequest_ServerErrorRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewHTTPProvider(testConfig(server.URL))
	defer p.Close()

	resp, err := p.DoRequest(context.Background(), "GET", server.URL, nil, nil)
	if err != nil {
		t.Fatalf("DoRequest after retry: %v", err)
	}
	resp.Body.Close()

	if calls != 2 {
		t.Errorf("server calls = %d, want 2", calls)
	}
}

func TestDoRequest_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	p := NewHTTPProvider(testConfig(server.URL))
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.DoRequest(ctx, "GET", server.URL, nil, nil)
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestUpdateHealth_CircuitBreaker(t *testing.T) {
	p := NewHTTPProvider(testConfig("http://localhost:1"))
	defer p.Close()

	if !p.IsHealthy() {
		t.Fatal("provider should start healthy")
	}

	failure := errors.New("boom")
	p.updateHealth(false, failure)
	p.updateHealth(false, failure)
	if !p.IsHealthy() {
		t.Error("provider unhealthy after 2 failures, threshold is 3")
	}

	p.updateHealth(false, failure)
	if p.IsHealthy() {
		t.Error("provider still healthy after 3 consecutive failures")
	}

	p.updateHealth(true, nil)
	if !p.IsHealthy() {
		t.Error("provider did not recover after success")
	}
	if got := p.GetHealth().ConsecutiveFailures; got != 0 {
		t.Errorf("ConsecutiveFailures = %d, want 0 after recovery", got)
	}
}

func TestDoJSONRequest_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	p := NewHTTPProvider(testConfig(server.URL))
	defer p.Close()

	var out map[string]any
	err := p.DoJSONRequest(context.Background(), "GET", server.URL, nil, &out, nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.RawResponse != "not json" {
		t.Errorf("RawResponse = %q, want raw body", parseErr.RawResponse)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("empty header = %s, want 0", got)
	}
	if got := parseRetryAfter("42"); got != 42*time.Second {
		t.Errorf("seconds form = %s, want 42s", got)
	}

	date := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(date)
	if got < 80*time.Second || got > 90*time.Second {
		t.Errorf("date form = %s, want roughly 90s", got)
	}

	if got := parseRetryAfter("garbage"); got != 0 {
		t.Errorf("garbage header = %s, want 0", got)
	}
}
