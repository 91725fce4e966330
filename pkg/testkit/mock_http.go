// Package testkit contains test helpers for stubbing outbound HTTP.
package testkit

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ─── MockTransport ────────────────────────────────────────────────────────────

// MockTransport implements http.RoundTripper. It matches outgoing HTTP
// requests against registered stubs and returns synthetic responses
// instead of making real network calls.
//
// Install it on the shared client before the test:
//
//	mt := testkit.NewMockTransport()
//	mt.Stub(http.MethodGet, gatewayURL+"/products", 200, `[...]`)
//	httpclient.DefaultClient.Transport = mt
//	defer httpclient.ResetTransport()
//	// ... run test ...
//	mt.AssertAllCalled(t)
type MockTransport struct {
	mu    sync.Mutex
	stubs []*stub
}

type stub struct {
	method    string
	urlPrefix string
	status    int
	body      string
	headers   map[string]string
	err       error
	callCount int
}

// NewMockTransport returns an empty transport. Unstubbed calls fail the
// round trip with a descriptive error.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub registers a canned response for requests whose method matches and
// whose URL starts with urlPrefix. Stubs are matched in registration
// order; an empty method matches any method.
func (mt *MockTransport) Stub(method, urlPrefix string, status int, body string) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, &stub{method: method, urlPrefix: urlPrefix, status: status, body: body})
	return mt
}

// StubError registers a transport-level failure (connection refused,
// timeout) for matching requests.
func (mt *MockTransport) StubError(method, urlPrefix string, err error) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, &stub{method: method, urlPrefix: urlPrefix, err: err})
	return mt
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if s.method != "" && s.method != req.Method {
			continue
		}
		if !strings.HasPrefix(req.URL.String(), s.urlPrefix) {
			continue
		}

		s.callCount++
		if s.err != nil {
			return nil, s.err
		}

		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		for k, v := range s.headers {
			header.Set(k, v)
		}

		return &http.Response{
			StatusCode: s.status,
			Status:     fmt.Sprintf("%d %s", s.status, http.StatusText(s.status)),
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(s.body)),
			Request:    req,
		}, nil
	}

	return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call %s %s — no matching stub", req.Method, req.URL)
}

// Calls returns how many times the stub matching method+urlPrefix was hit.
func (mt *MockTransport) Calls(method, urlPrefix string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if s.method == method && s.urlPrefix == urlPrefix {
			return s.callCount
		}
	}
	return 0
}

// AssertAllCalled returns an error per stub that was never triggered.
// Call at the end of each test:
//
//	for _, err := range mt.AssertAllCalled() { t.Error(err) }
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, s := range mt.stubs {
		if s.callCount == 0 {
			errs = append(errs, fmt.Errorf(
				"testkit: stub %s %s was never called", s.method, s.urlPrefix,
			))
		}
	}
	return errs
}
