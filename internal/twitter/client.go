// Package twitter 实现爬取引擎使用的 v1.1 REST API 客户端（OAuth1 用户上下文签名）。
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog"

	"github.com/azhengyongqin/blockedby/internal/model"
)

const (
	DefaultBaseURL = "https://api.twitter.com/1.1"
	// pageSize friends/ids、followers/ids 单页最大数量
	pageSize = 5000
	// maxErrorBody 错误响应体最多保留的字节数
	maxErrorBody = 4 << 10
)

// Credentials OAuth1 凭证
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// APIError 非 2xx 响应
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
	ResetAt    time.Time // x-rate-limit-reset，未返回时为零值
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// RateLimited 是否触发限流
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// RetryAfter 若 err 链中包含带重置时间的限流错误，返回距离重置还需等待的时长，否则返回 0
func RetryAfter(err error, now time.Time) time.Duration {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.RateLimited() || apiErr.ResetAt.IsZero() {
		return 0
	}
	return max(apiErr.ResetAt.Sub(now), 0)
}

// Client REST 客户端
type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

type Option func(*Client)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New 创建签名客户端；ctx 可通过 oauth1.HTTPClient 注入底层 http.Client
func New(ctx context.Context, baseURL string, creds Credentials, opts ...Option) *Client {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:    cfg.Client(ctx, token),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type verifyCredentialsResponse struct {
	IDStr string `json:"id_str"`
}

type idsResponse struct {
	IDs           []string `json:"ids"`
	NextCursorStr string   `json:"next_cursor_str"`
}

type userResponse struct {
	IDStr      string `json:"id_str"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
	BlockedBy  bool   `json:"blocked_by"`
}

func (c *Client) VerifyIdentity(ctx context.Context) (string, error) {
	var resp verifyCredentialsResponse
	q := url.Values{}
	q.Set("skip_status", "true")
	q.Set("include_entities", "false")
	if err := c.get(ctx, "account/verify_credentials", q, &resp); err != nil {
		return "", err
	}
	if resp.IDStr == "" {
		return "", errors.New("twitter account/verify_credentials: missing id_str")
	}
	return resp.IDStr, nil
}

func (c *Client) ListConnections(ctx context.Context, dir model.Direction, subjectID, cursor string) (model.ConnectionPage, error) {
	var endpoint string
	switch dir {
	case model.Outgoing:
		endpoint = "friends/ids"
	case model.Incoming:
		endpoint = "followers/ids"
	default:
		return model.ConnectionPage{}, fmt.Errorf("invalid direction %q", dir)
	}
	if cursor == "" {
		cursor = model.FirstCursor
	}

	q := url.Values{}
	q.Set("user_id", subjectID)
	q.Set("cursor", cursor)
	q.Set("stringify_ids", "true")
	q.Set("count", strconv.Itoa(pageSize))

	var resp idsResponse
	if err := c.get(ctx, endpoint, q, &resp); err != nil {
		return model.ConnectionPage{}, err
	}
	return model.ConnectionPage{IDs: resp.IDs, NextCursor: resp.NextCursorStr}, nil
}

func (c *Client) LookupBlockedStatus(ctx context.Context, ids []string) ([]model.UserStatus, error) {
	if len(ids) == 0 {
		return []model.UserStatus{}, nil
	}

	q := url.Values{}
	q.Set("user_id", strings.Join(ids, ","))
	q.Set("include_blocked_by", "true")
	q.Set("include_entities", "false")

	var resp []userResponse
	if err := c.get(ctx, "users/lookup", q, &resp); err != nil {
		return nil, err
	}

	out := make([]model.UserStatus, 0, len(resp))
	for _, u := range resp {
		out = append(out, model.UserStatus{
			ID:              u.IDStr,
			Name:            u.Name,
			Handle:          u.ScreenName,
			BlockedByViewer: u.BlockedBy,
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, dest any) error {
	u := c.baseURL + "/" + endpoint + ".json"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twitter %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", http.MethodGet).
		Str("path", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("twitter api")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(body)),
		}
		if reset, err := strconv.ParseInt(resp.Header.Get("x-rate-limit-reset"), 10, 64); err == nil {
			apiErr.ResetAt = time.Unix(reset, 0)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("twitter %s: decode response: %w", endpoint, err)
	}
	return nil
}
