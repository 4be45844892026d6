// Package wechat 微信公众号接口：网页授权、JS-SDK 配置与服务器校验
package wechat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"redpacket/pkg/payment/utils"
)

const (
	DefaultAPIURL  = "https://api.weixin.qq.com"
	DefaultOpenURL = "https://open.weixin.qq.com"

	// 缓存提前失效的秒数，避免临界过期
	expiryMargin = 200
)

var (
	ErrMissingCredentials = errors.New("wechat: app_id or app_secret not configured")
	ErrMissingURL         = errors.New("wechat: page url is required")
)

// APIError 微信接口返回的 errcode 非 0
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wechat api error %d: %s", e.Code, e.Msg)
}

// apiStatus 所有接口响应共有的错误字段
type apiStatus struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (s apiStatus) err() error {
	if s.ErrCode == 0 {
		return nil
	}
	return &APIError{Code: s.ErrCode, Msg: s.ErrMsg}
}

type response interface {
	err() error
}

// Cache 存放 access_token 与 jsapi_ticket，*redis.RedisClient 满足该接口
type Cache interface {
	Get(key string) string
	Set(key string, value interface{}, expiration time.Duration) bool
}

// Config 公众号配置
type Config struct {
	AppID     string
	AppSecret string
	Token     string
	APIURL    string
	OpenURL   string
	Timeout   time.Duration
	// Mock 为 true 时 JS-SDK 配置返回模拟数据，仅用于无凭证的开发环境
	Mock bool
}

// Client 公众号接口客户端
type Client struct {
	cfg   Config
	http  *resty.Client
	cache Cache

	now   func() time.Time
	nonce func() string
}

// New 创建客户端，cache 为 nil 时使用进程内缓存
func New(cfg Config, cache Cache) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.OpenURL == "" {
		cfg.OpenURL = DefaultOpenURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cache == nil {
		cache = NewMemoryCache()
	}

	return &Client{
		cfg:   cfg,
		http:  resty.New().SetBaseURL(cfg.APIURL).SetTimeout(cfg.Timeout),
		cache: cache,
		now:   time.Now,
		nonce: func() string { return utils.GenerateNonceStr()[:16] },
	}
}

// AppID 公众号 AppID
func (c *Client) AppID() string {
	return c.cfg.AppID
}

func (c *Client) hasCredentials() bool {
	return c.cfg.AppID != "" && c.cfg.AppSecret != ""
}

// get 调用 GET 接口并解析 JSON，微信部分接口返回 text/plain，因此强制按 JSON 解析
func (c *Client) get(ctx context.Context, path string, query map[string]string, out response) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return fmt.Errorf("wechat api %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("wechat api %s: unexpected status code %d", path, resp.StatusCode())
	}
	return out.err()
}

// MemoryCache 进程内缓存
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	value    string
	expireAt time.Time
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem)}
}

// Get 实现 Cache，过期返回空串
func (m *MemoryCache) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	if !ok || (!item.expireAt.IsZero() && time.Now().After(item.expireAt)) {
		return ""
	}
	return item.value
}

// Set 实现 Cache
func (m *MemoryCache) Set(key string, value interface{}, expiration time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: fmt.Sprint(value)}
	if expiration > 0 {
		item.expireAt = time.Now().Add(expiration)
	}
	m.items[key] = item
	return true
}
