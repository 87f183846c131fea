// Package domain 定义购物车相关的领域模型。
package domain

import (
	"github.com/shopspring/decimal"
)

// CartItem 表示购物车中的一个条目，以商品ID作为唯一键。
// 数量必须大于等于1，数量为0的条目不允许存在，应当直接移除。
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal 计算该条目的小计金额（单价 × 数量）
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartState 表示购物车的不可变快照。
// Subtotal 和 TotalItemCount 是派生字段，每次变更后由 NewCartState 重新计算。
type CartState struct {
	Items          []CartItem
	Subtotal       decimal.Decimal
	TotalItemCount int
}

// NewCartState 基于条目列表构造购物车快照。
// 数量小于1或商品ID重复的条目会被丢弃（持久化数据可能被篡改或过期），
// 保证快照始终满足以下不变量：
//   - Subtotal  == Σ(单价 × 数量)
//   - TotalItemCount == Σ(数量)
//   - 商品ID唯一，数量 >= 1
func NewCartState(items []CartItem) CartState {
	kept := make([]CartItem, 0, len(items))
	seen := make(map[int64]bool, len(items))
	subtotal := decimal.Zero
	count := 0

	for _, item := range items {
		if item.Quantity < 1 || seen[item.Product.ID] {
			continue
		}
		seen[item.Product.ID] = true
		kept = append(kept, item)
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}

	return CartState{
		Items:          kept,
		Subtotal:       subtotal,
		TotalItemCount: count,
	}
}

// EmptyCartState 返回空购物车快照
func EmptyCartState() CartState {
	return NewCartState(nil)
}
