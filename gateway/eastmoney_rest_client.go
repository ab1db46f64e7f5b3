package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock-watcher-go/quote"
)

const (
	defaultBaseURL = "https://push2.eastmoney.com"
	// quoteFields ulist 接口请求的字段集，与 quote.RawRecord 一一对应。
	quoteFields = "f2,f3,f4,f5,f6,f7,f8,f9,f10,f11,f12,f13,f14,f15,f16,f17,f18,f20,f21,f22,f23,f24,f25"
)

// EastMoneyRESTClient 东方财富 push2 行情客户端。一个刷新周期只发一次请求，
// 全部 secid 拼进同一个批量查询；HTTPClient 可注入 httptest。
type EastMoneyRESTClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    RateLimiter
	UserAgent  string
}

// ulistResponse 响应外壳。diff 逐条独立解析，坏记录丢弃、其余保留。
type ulistResponse struct {
	Data struct {
		Total int               `json:"total"`
		Diff  []json.RawMessage `json:"diff"`
	} `json:"data"`
}

// FetchQuotes 批量拉取 secid 列表的原始行情记录。
func (c *EastMoneyRESTClient) FetchQuotes(ctx context.Context, secids []string) ([]quote.RawRecord, error) {
	if len(secids) == 0 {
		return nil, nil
	}
	if c == nil || c.HTTPClient == nil {
		return nil, fmt.Errorf("http client not set")
	}
	if c.Limiter != nil {
		c.Limiter.Wait()
	}

	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	q := url.Values{}
	q.Set("secids", strings.Join(secids, ","))
	q.Set("fields", quoteFields)
	endpoint := base + "/api/qt/ulist.np/get?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ulist status %d", resp.StatusCode)
	}

	var env ulistResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode ulist response: %w", err)
	}

	records := make([]quote.RawRecord, 0, len(env.Data.Diff))
	for _, raw := range env.Data.Diff {
		var rec quote.RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue // 单条坏记录丢弃，不影响同批其它记录
		}
		records = append(records, rec)
	}
	return records, nil
}

// NewDefaultHTTPClient 提供一个带超时的 http.Client。
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
