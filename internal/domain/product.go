// Package domain 定义移动商城客户端的领域模型和状态快照。
package domain

import (
	"github.com/shopspring/decimal"
)

// Rating 表示商品的评分信息。
// 上游响应缺失该字段时保持零值，避免解析失败。
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product 表示商品目录中的单个商品，从接口响应构造后不可变
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}
