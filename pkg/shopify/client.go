// Package shopify provides a small SDK for the public Shopify storefront API.
//
// This is an **API SDK**, not just a "dumb" HTTP client. It provides:
//   - HTTP client with retry, rate limiting, and error classification
//   - Auto-pagination over the /products.json listing endpoint
//   - Decoding into the catalog raw product model
//
// Any non-2xx status is fatal for the run: a partial catalog must never be
// processed, so the fetch either returns the whole listing or an error.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilkoid/facet-ai/pkg/catalog"
	"github.com/ilkoid/facet-ai/pkg/config"
	"github.com/ilkoid/facet-ai/pkg/utils"
	"golang.org/x/time/rate"
)

// ErrorType представляет тип ошибки при работе с витриной.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrNotFound
	ErrTimeout
	ErrNetwork
	ErrRateLimit
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrNotFound:
		return "store_not_found"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — клиент витрины магазина.
type Client struct {
	httpClient    HTTPClient
	limiter       *rate.Limiter
	perPage       int
	retryAttempts int
}

// NewFromConfig создает новый клиент из конфигурации.
//
// Поля с нулевыми значениями используют дефолтные значения через GetDefaults().
func NewFromConfig(cfg config.ShopifyConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid shopify.timeout format: %w", err)
	}

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(cfg.RateLimit) / 60.0

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:       rate.NewLimiter(rate.Limit(ratePerSec), cfg.BurstLimit),
		perPage:       cfg.PerPage,
		retryAttempts: cfg.RetryAttempts,
	}, nil
}

// ClassifyError классифицирует ошибку по типу для лучшей диагностики.
func (c *Client) ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	errMsg := err.Error()
	errMsgLower := strings.ToLower(errMsg)

	if strings.Contains(errMsg, "404") || strings.Contains(errMsgLower, "not found") {
		return ErrNotFound
	}
	if strings.Contains(errMsgLower, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded") {
		return ErrTimeout
	}
	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no such host") {
		return ErrNetwork
	}
	if strings.Contains(errMsg, "429") ||
		strings.Contains(errMsg, "Too Many Requests") {
		return ErrRateLimit
	}

	return ErrUnknown
}

// productsPage — обертка ответа /products.json.
type productsPage struct {
	Products []catalog.RawProduct `json:"products"`
}

// FetchProductsPage получает одну страницу листинга товаров.
//
// Возвращает пустой срез когда страница за пределами листинга —
// это признак конца пагинации.
func (c *Client) FetchProductsPage(ctx context.Context, storeURL string, page int) ([]catalog.RawProduct, error) {
	u, err := normalizeStoreURL(storeURL)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.perPage))
	params.Set("page", strconv.Itoa(page))

	reqURL := fmt.Sprintf("%s/products.json?%s", u, params.Encode())

	var lastErr error

	// Retry loop: сетевые сбои и 429 ретраим, любой другой не-2xx статус фатален
	for i := 0; i < c.retryAttempts; i++ {
		// Ждем разрешения от лимитера (блокирует горутину, если превысили лимит)
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			continue // Сетевая ошибка, пробуем еще
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Обработка 429 (Too Many Requests)
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := 1 * time.Second // Дефолт
			if s := resp.Header.Get("Retry-After"); s != "" {
				if sec, err := strconv.Atoi(s); err == nil {
					retryAfter = time.Duration(sec) * time.Second
				}
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryAfter):
				continue
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("shopify api error: status %d, body: %s", resp.StatusCode, truncateBody(body))
		}

		var pageData productsPage
		if err := json.Unmarshal(body, &pageData); err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}

		return pageData.Products, nil
	}

	return nil, fmt.Errorf("max retries exceeded, last error: %v", lastErr)
}

// FetchAllProducts выкачивает весь листинг товаров, автоматически листая страницы.
//
// Пагинация заканчивается когда приходит пустая страница.
func (c *Client) FetchAllProducts(ctx context.Context, storeURL string) ([]catalog.RawProduct, error) {
	var all []catalog.RawProduct
	page := 1

	for {
		batch, err := c.FetchProductsPage(ctx, storeURL, page)
		if err != nil {
			utils.Error("product fetch failed",
				"store", storeURL,
				"page", page,
				"error_type", c.ClassifyError(err).String(),
				"error", err)
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)
		page++
	}

	utils.Info("product listing fetched", "store", storeURL, "products", len(all), "pages", page-1)
	return all, nil
}

// normalizeStoreURL приводит адрес магазина к виду https://host.
//
// Пользователь передаёт домен ("example.com") или полный URL —
// оба варианта принимаются.
func normalizeStoreURL(storeURL string) (string, error) {
	s := strings.TrimSpace(storeURL)
	if s == "" {
		return "", fmt.Errorf("store url is empty")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid store url: %s", storeURL)
	}
	return strings.TrimSuffix(s, "/"), nil
}

// truncateBody обрезает тело ответа для сообщения об ошибке.
func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
