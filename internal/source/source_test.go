package source

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// redirectTransport rewrites every request to the test server, keeping the
// original path and query.
func redirectTransport(srv *httptest.Server) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		req.URL.Scheme = "http"
		req.URL.Host = srv.Listener.Addr().String()
		return http.DefaultTransport.RoundTrip(req)
	})
}

func TestOptions_Timeout(t *testing.T) {
	if got := (Options{}).timeout(); got != 30*time.Second {
		t.Errorf("zero timeout = %v, want 30s default", got)
	}
	if got := (Options{Timeout: 5 * time.Second}).timeout(); got != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("120"); got != 120*time.Second {
		t.Errorf("parseRetryAfter(120) = %v", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("parseRetryAfter(empty) = %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Errorf("parseRetryAfter(soon) = %v", got)
	}
}

func TestUserAgent(t *testing.T) {
	if userAgent() == "" {
		t.Error("userAgent() returned empty string")
	}
}
