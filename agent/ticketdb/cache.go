package ticketdb

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
	"time"

	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

var (
	ErrCacheMiss       = errors.New("ticket state not cached")
	ErrInvalidCacheKey = errors.New("ticket id is empty")
)

const (
	defaultCacheKeyPrefix = "support:ticket:"
	defaultCacheTTL       = 24 * time.Hour
	maxResponseSizeBytes  = 2 << 20
)

// CacheOption customizes RedisCache.
type CacheOption func(*RedisCache)

func WithCacheKeyPrefix(prefix string) CacheOption {
	return func(c *RedisCache) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			c.keyPrefix = trimmed
		}
	}
}

func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		c.ttl = ttl
	}
}

func WithCacheHTTPClient(client *http.Client) CacheOption {
	return func(c *RedisCache) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// RedisCache keeps resolved ticket states in Upstash Redis via REST for fast
// retrieval. It is a read-through cache over the Postgres sink, never the
// source of truth.
type RedisCache struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type RedisCacheConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

func NewRedisCache(cfg RedisCacheConfig, opts ...CacheOption) (*RedisCache, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("redis rest url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("redis rest token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cache := &RedisCache{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		keyPrefix: defaultCacheKeyPrefix,
		ttl:       defaultCacheTTL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cache)
		}
	}

	if cache.ttl < 0 {
		return nil, errors.New("cache ttl must be >= 0")
	}

	return cache, nil
}

func (c *RedisCache) Get(ctx context.Context, ticketID string) (*statex.TicketState, error) {
	key, err := c.redisKey(ticketID)
	if err != nil {
		return nil, err
	}

	resp, err := c.exec(ctx, []any{"GET", key})
	if err != nil {
		return nil, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, ErrCacheMiss
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, fmt.Errorf("decode cached payload: %w", err)
	}

	var state statex.TicketState
	if err := json.Unmarshal([]byte(encoded), &state); err != nil {
		return nil, fmt.Errorf("unmarshal cached ticket state: %w", err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ticket state loaded from cache: %w", err)
	}

	return &state, nil
}

func (c *RedisCache) Put(ctx context.Context, st *statex.TicketState) error {
	if st == nil {
		return statex.ErrNilTicketState
	}

	key, err := c.redisKey(st.TicketID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal ticket state: %w", err)
	}

	cmd := []any{"SET", key, string(payload)}
	if c.ttl > 0 {
		cmd = append(cmd, "EX", int64(c.ttl/time.Second))
	}

	if _, err := c.exec(ctx, cmd); err != nil {
		return err
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, ticketID string) error {
	key, err := c.redisKey(ticketID)
	if err != nil {
		return err
	}
	_, err = c.exec(ctx, []any{"DEL", key})
	return err
}

func (c *RedisCache) redisKey(ticketID string) (string, error) {
	if strings.TrimSpace(ticketID) == "" {
		return "", ErrInvalidCacheKey
	}
	return c.keyPrefix + strings.TrimSpace(ticketID), nil
}

func (c *RedisCache) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("redis command failed: %s", parsed.Error)
	}

	return &parsed, nil
}
