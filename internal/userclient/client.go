package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Zaharysh37/order-service/internal/auth"
	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/pkg/breaker"
	"github.com/Zaharysh37/order-service/pkg/logging"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client is the resilient accessor to the external user directory. Calls
// never surface transport errors: on breaker open or request failure the
// per-endpoint fallback is returned and callers decide whether degraded
// data is acceptable (the creation path treats it as a hard failure).
type Client interface {
	GetByEmail(ctx context.Context, email string) *domain.User
	GetByID(ctx context.Context, id int64) *domain.User
	GetByIDs(ctx context.Context, ids []int64) []domain.User
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// New builds a directory client sharing one breaker across all three
// endpoints; the breaker is the only mutable state and gobreaker guards it
// with its own locking.
func New(cfg Config, cb *gobreaker.CircuitBreaker, logger *zap.Logger) Client {
	return &client{
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         cb,
		logger:     logger,
	}
}

func (c *client) GetByEmail(ctx context.Context, email string) *domain.User {
	user, degraded := breaker.Do(c.cb, func() (*domain.User, error) {
		var user domain.User
		endpoint := fmt.Sprintf("%s/api/users/email?email=%s", c.baseURL, url.QueryEscape(email))

		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &user); err != nil {
			return nil, err
		}
		return &user, nil
	}, domain.FallbackUser())

	if degraded {
		logging.Warn(
			ctx,
			c.logger,
			"User directory degraded, returning fallback user",
			zap.String("endpoint", "GetByEmail"),
		)
	}

	return user
}

func (c *client) GetByID(ctx context.Context, id int64) *domain.User {
	user, degraded := breaker.Do(c.cb, func() (*domain.User, error) {
		var user domain.User
		endpoint := fmt.Sprintf("%s/api/users/%d", c.baseURL, id)

		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &user); err != nil {
			return nil, err
		}
		return &user, nil
	}, domain.FallbackUser())

	if degraded {
		logging.Warn(
			ctx,
			c.logger,
			"User directory degraded, returning fallback user",
			zap.String("endpoint", "GetByID"),
			zap.Int64("user_id", id),
		)
	}

	return user
}

// GetByIDs resolves a whole page of owners in one round trip. The fallback
// is an empty list so callers zip what they got and degrade the rest.
func (c *client) GetByIDs(ctx context.Context, ids []int64) []domain.User {
	users, degraded := breaker.Do(c.cb, func() ([]domain.User, error) {
		var users []domain.User
		endpoint := fmt.Sprintf("%s/api/users/batch/id", c.baseURL)

		if err := c.doJSON(ctx, http.MethodPost, endpoint, ids, &users); err != nil {
			return nil, err
		}
		return users, nil
	}, nil)

	if degraded {
		logging.Warn(
			ctx,
			c.logger,
			"User directory degraded, batch lookup skipped",
			zap.String("endpoint", "GetByIDs"),
			zap.Int("ids_count", len(ids)),
		)
	}

	return users
}

func (c *client) doJSON(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token, ok := auth.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("user directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("user directory returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode user directory response: %w", err)
	}

	return nil
}
