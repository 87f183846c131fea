// Package api 实现商品目录服务的HTTP客户端。
package api

import (
	"github.com/drund/storedemo/internal/domain"
)

// FetchStatus 区分一次远程读取的三种结果。
// 显式区分"成功无数据"和"失败"，上层可以选择合并处理，
// 也可以把失败透传到目录状态的错误字段，无需改动调用点。
type FetchStatus int

const (
	StatusOK    FetchStatus = iota // 成功且有数据
	StatusEmpty                    // 成功但无数据（空列表或商品不存在）
	StatusError                    // 传输、超时或解析失败
)

// ProductsResult 表示一次商品列表读取的结果
type ProductsResult struct {
	Status   FetchStatus
	Products []domain.Product
	Err      error
}

// ProductResult 表示一次单个商品读取的结果
type ProductResult struct {
	Status  FetchStatus
	Product *domain.Product
	Err     error
}
