package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var (
	ErrDeclined = errors.New("payment declined")
	ErrProvider = errors.New("payment provider error")
)

// Provider creates provider-side orders and captures them once the buyer
// approved the payment.
type Provider interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, reference string) (string, error)
	CaptureOrder(ctx context.Context, providerRef string) error
}

type HTTPProvider struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPProvider talks to a checkout API at baseURL. Calls are limited to
// perSecond requests per second with a burst of one.
func NewHTTPProvider(baseURL, secret string, perSecond float64) *HTTPProvider {
	if perSecond <= 0 {
		perSecond = 5
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

type createOrderBody struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type providerOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (p *HTTPProvider) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, reference string) (string, error) {
	var out providerOrder
	body := createOrderBody{Amount: amount.StringFixed(2), Currency: currency, Reference: reference}
	if err := p.call(ctx, "/v2/checkout/orders", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: empty order id", ErrProvider)
	}
	return out.ID, nil
}

func (p *HTTPProvider) CaptureOrder(ctx context.Context, providerRef string) error {
	var out providerOrder
	if err := p.call(ctx, "/v2/checkout/orders/"+url.PathEscape(providerRef)+"/capture", nil, &out); err != nil {
		return err
	}
	if out.Status != "COMPLETED" {
		return fmt.Errorf("%w: status %s", ErrDeclined, out.Status)
	}
	return nil
}

func (p *HTTPProvider) call(ctx context.Context, path string, in, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.secret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%w: status %d", ErrDeclined, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrProvider, err)
	}
	return nil
}

// Sandbox approves every order it created itself. Used when no provider URL
// is configured.
type Sandbox struct {
	mu     sync.Mutex
	orders map[string]bool
}

func NewSandbox() *Sandbox {
	return &Sandbox{orders: make(map[string]bool)}
}

func (s *Sandbox) CreateOrder(_ context.Context, amount decimal.Decimal, _, _ string) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be positive", ErrDeclined)
	}
	ref := "SANDBOX-" + strings.ToUpper(uuid.NewString())
	s.mu.Lock()
	s.orders[ref] = false
	s.mu.Unlock()
	return ref, nil
}

func (s *Sandbox) CaptureOrder(_ context.Context, providerRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	captured, ok := s.orders[providerRef]
	if !ok {
		return fmt.Errorf("%w: unknown order %s", ErrDeclined, providerRef)
	}
	if captured {
		return fmt.Errorf("%w: order %s already captured", ErrDeclined, providerRef)
	}
	s.orders[providerRef] = true
	return nil
}
