package shopify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ilkoid/facet-ai/pkg/config"
	"golang.org/x/time/rate"
)

// fakeHTTPClient отдаёт ответы по номеру страницы из query-параметра.
type fakeHTTPClient struct {
	pages    map[string]response // page → ответ
	requests []string            // все запрошенные URL
}

type response struct {
	status int
	body   string
	header http.Header
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req.URL.String())

	page := req.URL.Query().Get("page")
	resp, ok := f.pages[page]
	if !ok {
		resp = response{status: 200, body: `{"products": []}`}
	}
	header := resp.header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: resp.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(resp.body))),
	}, nil
}

func testClient(httpClient HTTPClient) *Client {
	return &Client{
		httpClient:    httpClient,
		limiter:       rate.NewLimiter(rate.Inf, 1),
		perPage:       250,
		retryAttempts: 3,
	}
}

func TestFetchAllProducts_Pagination(t *testing.T) {
	fake := &fakeHTTPClient{pages: map[string]response{
		"1": {status: 200, body: `{"products": [{"id": 1, "title": "A"}, {"id": 2, "title": "B"}]}`},
		"2": {status: 200, body: `{"products": [{"id": 3, "title": "C"}]}`},
		// Страница 3 пустая — конец листинга.
	}}
	c := testClient(fake)

	products, err := c.FetchAllProducts(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("FetchAllProducts() error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("got %d products, want 3", len(products))
	}
	if string(products[2].ID) != "3" {
		t.Errorf("last product id = %q, want 3", products[2].ID)
	}

	// Запрошены ровно страницы 1, 2, 3 в этом порядке.
	if len(fake.requests) != 3 {
		t.Fatalf("made %d requests, want 3: %v", len(fake.requests), fake.requests)
	}
	for i, req := range fake.requests {
		if !strings.Contains(req, fmt.Sprintf("page=%d", i+1)) {
			t.Errorf("request %d = %q, want page=%d", i, req, i+1)
		}
		if !strings.HasPrefix(req, "https://example.com/products.json") {
			t.Errorf("request %d url = %q", i, req)
		}
		if !strings.Contains(req, "limit=250") {
			t.Errorf("request %d missing per-page limit: %q", i, req)
		}
	}
}

func TestFetchProductsPage_NonOKIsFatal(t *testing.T) {
	fake := &fakeHTTPClient{pages: map[string]response{
		"1": {status: 404, body: "Not Found"},
	}}
	c := testClient(fake)

	_, err := c.FetchProductsPage(context.Background(), "example.com", 1)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	// Не-2xx не ретраится: частичный листинг хуже отказа.
	if len(fake.requests) != 1 {
		t.Errorf("made %d requests, want 1", len(fake.requests))
	}
	if c.ClassifyError(err) != ErrNotFound {
		t.Errorf("ClassifyError() = %v, want ErrNotFound", c.ClassifyError(err))
	}
}

// flakyClient падает сетевой ошибкой заданное число раз, потом отвечает.
type flakyClient struct {
	failures int
	calls    int
}

func (f *flakyClient) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection refused")
	}
	return &http.Response{
		StatusCode: 200,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(`{"products": [{"id": 1, "title": "A"}]}`)),
	}, nil
}

func TestFetchProductsPage_RetriesNetworkErrors(t *testing.T) {
	flaky := &flakyClient{failures: 2}
	c := testClient(flaky)

	products, err := c.FetchProductsPage(context.Background(), "example.com", 1)
	if err != nil {
		t.Fatalf("FetchProductsPage() error: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("got %d products, want 1", len(products))
	}
	if flaky.calls != 3 {
		t.Errorf("made %d calls, want 3", flaky.calls)
	}
}

func TestFetchProductsPage_RetriesExhausted(t *testing.T) {
	flaky := &flakyClient{failures: 100}
	c := testClient(flaky)

	_, err := c.FetchProductsPage(context.Background(), "example.com", 1)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if flaky.calls != c.retryAttempts {
		t.Errorf("made %d calls, want %d", flaky.calls, c.retryAttempts)
	}
	if c.ClassifyError(err) != ErrNetwork {
		t.Errorf("ClassifyError() = %v, want ErrNetwork", c.ClassifyError(err))
	}
}

func TestNormalizeStoreURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"example.com", "https://example.com", false},
		{"https://example.com", "https://example.com", false},
		{"https://example.com/", "https://example.com", false},
		{"http://example.com", "http://example.com", false},
		{"  example.com ", "https://example.com", false},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := normalizeStoreURL(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normalizeStoreURL(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeStoreURL(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("normalizeStoreURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNewFromConfig_Defaults(t *testing.T) {
	c, err := NewFromConfig(config.ShopifyConfig{})
	if err != nil {
		t.Fatalf("NewFromConfig() error: %v", err)
	}
	if c.perPage != 250 {
		t.Errorf("perPage = %d, want 250", c.perPage)
	}
	if c.retryAttempts != 3 {
		t.Errorf("retryAttempts = %d, want 3", c.retryAttempts)
	}
}

func TestClassifyError(t *testing.T) {
	c := testClient(nil)

	tests := []struct {
		err      error
		expected ErrorType
	}{
		{errors.New("status 404, body: nope"), ErrNotFound},
		{errors.New("context deadline exceeded"), ErrTimeout},
		{errors.New("dial tcp: connection refused"), ErrNetwork},
		{errors.New("no such host"), ErrNetwork},
		{errors.New("status 429"), ErrRateLimit},
		{errors.New("something else"), ErrUnknown},
		{nil, ErrUnknown},
	}

	for _, tt := range tests {
		if got := c.ClassifyError(tt.err); got != tt.expected {
			t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}
