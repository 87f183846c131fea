// Package api 实现商品目录服务的HTTP客户端。
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/drund/storedemo/internal/domain"
)

// DefaultTimeout 目录请求的默认超时时间
const DefaultTimeout = 10 * time.Second

// CatalogClient 定义商品目录服务的读取接口。
// 两个方法都不返回Go错误：失败被吸收为带错误信息的结果值，
// 调用方永远拿到一个可直接消费的 Result。
type CatalogClient interface {
	// FetchAll 拉取全部商品，GET /products
	FetchAll(ctx context.Context) ProductsResult

	// FetchOne 按ID拉取单个商品，GET /products/{id}
	FetchOne(ctx context.Context, id int64) ProductResult
}

// httpCatalogClient CatalogClient的HTTP实现
type httpCatalogClient struct {
	baseURL string
	client  *http.Client
	lg      *zap.Logger
}

// NewCatalogClient 创建目录服务客户端，timeout为0时使用默认超时
func NewCatalogClient(baseURL string, timeout time.Duration, lg *zap.Logger) CatalogClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &httpCatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		lg:      lg,
	}
}

// FetchAll 拉取全部商品。
// 任何传输或解析失败都收敛为 StatusError 结果并记录日志。
// 响应中的未知字段会被忽略，保证对上游新增字段的前向兼容。
func (c *httpCatalogClient) FetchAll(ctx context.Context) ProductsResult {
	var products []domain.Product
	if err := c.getJSON(ctx, c.baseURL+"/products", &products); err != nil {
		c.lg.Sugar().Warnw("fetch products failed", "err", err)
		return ProductsResult{Status: StatusError, Err: err}
	}

	if len(products) == 0 {
		return ProductsResult{Status: StatusEmpty, Products: []domain.Product{}}
	}
	return ProductsResult{Status: StatusOK, Products: products}
}

// FetchOne 按ID拉取单个商品。
// 404视为"商品不存在"（StatusEmpty），其他失败收敛为 StatusError。
func (c *httpCatalogClient) FetchOne(ctx context.Context, id int64) ProductResult {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ProductResult{Status: StatusError, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.lg.Sugar().Warnw("fetch product failed", "id", id, "err", err)
		return ProductResult{Status: StatusError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ProductResult{Status: StatusEmpty}
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		c.lg.Sugar().Warnw("fetch product failed", "id", id, "err", err)
		return ProductResult{Status: StatusError, Err: err}
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		err = fmt.Errorf("failed to decode product %d: %w", id, err)
		c.lg.Sugar().Warnw("fetch product failed", "id", id, "err", err)
		return ProductResult{Status: StatusError, Err: err}
	}

	return ProductResult{Status: StatusOK, Product: &product}
}

// getJSON 执行GET请求并解析JSON响应体
func (c *httpCatalogClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
