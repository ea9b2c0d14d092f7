package httpclient_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/a-ems/aems/errors"
	"github.com/a-ems/aems/httpclient"
	"github.com/a-ems/aems/resilience"
)

func newClient(t *testing.T, baseURL string, mutate func(*httpclient.Config)) *httpclient.Client {
	t.Helper()
	cfg := httpclient.Config{BaseURL: baseURL, Timeout: 2 * time.Second}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := httpclient.New("sales", cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestDo_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sales/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" {
			t.Errorf("expected page=2, got %s", r.URL.Query().Get("page"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, nil)
	resp, err := c.Do(context.Background(), httpclient.Request{
		Method: "GET",
		Path:   "/api/sales/orders",
		Query:  url.Values{"page": {"2"}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got %d", resp.StatusCode)
	}
	if resp.Headers.Get("Content-Type") != "application/json" {
		t.Errorf("expected content type header, got %v", resp.Headers)
	}
}

func TestDo_PreservesMultiValueHeadersAndQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["tag"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("expected repeated tag params, got %v", got)
		}
		w.Header().Add("Set-Cookie", "session=s1; Path=/")
		w.Header().Add("Set-Cookie", "theme=dark; Path=/")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, nil)
	resp, err := c.Do(context.Background(), httpclient.Request{
		Method: "GET",
		Path:   "/",
		Query:  url.Values{"tag": {"a", "b"}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if cookies := resp.Headers.Values("Set-Cookie"); len(cookies) != 2 {
		t.Fatalf("expected both Set-Cookie headers, got %v", cookies)
	}
}

func TestDo_JSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["name"] != "widget" {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, nil)
	resp, err := c.Do(context.Background(), httpclient.Request{
		Method: "POST",
		Path:   "/api/products",
		Body:   map[string]string{"name": "widget"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestDo_BearerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, nil)
	if _, err := c.Do(context.Background(), httpclient.Request{
		Method: "GET", Path: "/", BearerToken: "tok-1",
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestDo_ErrorStatusPassesThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, nil)
	resp, err := c.Do(context.Background(), httpclient.Request{Method: "GET", Path: "/"})
	if err != nil {
		t.Fatalf("non-2xx must not be an error: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "upstream broke" {
		t.Fatalf("expected body passthrough, got %q", resp.Body)
	}
}

func TestDo_TimeoutClassified(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, func(cfg *httpclient.Config) {
		cfg.Timeout = 50 * time.Millisecond
	})
	_, err := c.Do(context.Background(), httpclient.Request{Method: "GET", Path: "/"})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.ErrCodeTimeout {
		t.Fatalf("expected TIMEOUT, got %s", appErr.Code)
	}
	if !appErr.Retryable {
		t.Error("timeouts should be retryable")
	}
}

func TestDo_ConnectionRefusedClassified(t *testing.T) {
	// Bind and immediately close to get a dead port.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	dead := ts.URL
	ts.Close()

	c := newClient(t, dead, nil)
	_, err := c.Do(context.Background(), httpclient.Request{Method: "GET", Path: "/"})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.ErrCodeConnectionFailed {
		t.Fatalf("expected CONNECTION_FAILED, got %s", appErr.Code)
	}
}

func TestDo_RetriesTransportFailures(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			time.Sleep(200 * time.Millisecond)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, func(cfg *httpclient.Config) {
		cfg.Timeout = 50 * time.Millisecond
		retry := httpclient.DefaultRetryConfig()
		retry.MaxAttempts = 3
		retry.InitialBackoff = time.Millisecond
		cfg.Retry = retry
	})

	resp, err := c.Do(context.Background(), httpclient.Request{Method: "GET", Path: "/"})
	if err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_CircuitOpens(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	dead := ts.URL
	ts.Close()

	c := newClient(t, dead, func(cfg *httpclient.Config) {
		cb := httpclient.DefaultCircuitBreakerConfig("sales")
		cb.MaxFailures = 2
		cfg.CircuitBreaker = cb
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.Do(ctx, httpclient.Request{Method: "GET", Path: "/"}); err == nil {
			t.Fatal("expected transport failure")
		}
	}

	// Third call trips the breaker without hitting the network.
	_, err := c.Do(ctx, httpclient.Request{Method: "GET", Path: "/"})
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeConnectionFailed {
		t.Fatalf("expected CONNECTION_FAILED from open circuit, got %v", err)
	}
	if !stderrors.Is(err, resilience.ErrCircuitOpen) {
		t.Error("expected the open-circuit sentinel in the error chain")
	}
}

func TestDo_MalformedResponseClassified(t *testing.T) {
	// A listener that answers with bytes no HTTP client can parse. The
	// connection succeeds, so this must not classify as CONNECTION_FAILED.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()
	go func() {
		for {
			conn, acceptErr := ln.Accept()
			if acceptErr != nil {
				return
			}
			_, _ = conn.Write([]byte("junk without a status line\r\n"))
			_ = conn.Close()
		}
	}()

	c := newClient(t, "http://"+ln.Addr().String(), nil)
	_, err = c.Do(context.Background(), httpclient.Request{Method: "GET", Path: "/"})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.ErrCodeExternalService {
		t.Fatalf("expected EXTERNAL_SERVICE_ERROR, got %s", appErr.Code)
	}
}

func TestClassifyTransportError(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"deadline exceeded", context.DeadlineExceeded, errors.ErrCodeTimeout},
		{"dial refused", dialErr, errors.ErrCodeConnectionFailed},
		{"wrapped dial failure", &url.Error{Op: "Get", URL: "http://sales", Err: dialErr}, errors.ErrCodeConnectionFailed},
		{"protocol failure", stderrors.New(`malformed HTTP response "junk"`), errors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := httpclient.ClassifyTransportError("sales", tt.err)
			if got.Code != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Code)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorCode
	}{
		{http.StatusUnauthorized, errors.ErrCodeAuthentication},
		{http.StatusForbidden, errors.ErrCodeAuthorization},
		{http.StatusNotFound, errors.ErrCodeNotFound},
		{http.StatusTooManyRequests, errors.ErrCodeRateLimited},
		{http.StatusServiceUnavailable, errors.ErrCodeConnectionFailed},
		{http.StatusGatewayTimeout, errors.ErrCodeTimeout},
		{http.StatusInternalServerError, errors.ErrCodeExternalService},
		{http.StatusBadRequest, errors.ErrCodeBusiness},
	}
	for _, tt := range tests {
		got := httpclient.ClassifyStatus("sales", tt.status)
		if got == nil || got.Code != tt.want {
			t.Errorf("status %d: expected %s, got %v", tt.status, tt.want, got)
		}
	}
	if err := httpclient.ClassifyStatus("sales", http.StatusOK); err != nil {
		t.Errorf("2xx should classify as nil, got %v", err)
	}
}
