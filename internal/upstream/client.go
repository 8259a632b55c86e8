// Package upstream 远端 admin API 的薄封装。
// 只做三件事：拼 URL、带上 Bearer 凭证、全局处理一种失败（会话过期）。
// 不重试、不退避，超时只有传输层默认值。
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"hospitalink-admin/internal/core/session"
)

// DefaultBaseURL 本地开发环境的固定回退地址
const DefaultBaseURL = "http://localhost:5000/api"

var ErrUnauthorized = errors.New("upstream: unauthorized")

type Client struct {
	base string
	hc   *http.Client
	sess *session.Session
	log  *zap.Logger

	// 任意请求收到 401 都会触发：清会话 + 回调（路由层据此跳转 /login）
	onUnauthorized func()
}

func New(baseURL string, timeout time.Duration, sess *session.Session, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		base: baseURL,
		hc:   &http.Client{Timeout: timeout},
		sess: sess,
		log:  log,
	}
}

func (c *Client) SetUnauthorizedHook(fn func()) { c.onUnauthorized = fn }

func (c *Client) BaseURL() string { return c.base }

func (c *Client) Get(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) Post(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPost, path, body, target)
}

func (c *Client) Put(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPut, path, body, target)
}

func (c *Client) Delete(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodDelete, path, nil, target)
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.sess.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// 横切副作用：无论哪个调用触发，一律清凭证并通知跳转登录
		if e := c.sess.Clear(ctx); e != nil {
			c.log.Warn("clear session after 401", zap.Error(e))
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("upstream %s %s: status code = %d", method, path, resp.StatusCode)
	}

	if target == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
