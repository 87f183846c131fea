// Package state 实现购物车状态机。
package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/drund/storedemo/internal/domain"
	"github.com/drund/storedemo/internal/store"
)

// CartMachine 购物车状态机。
// 所有命令同步执行：校验并应用变更、重算派生字段、发布新快照，
// 然后把条目列表写穿到持久化存储。写入失败只记录日志，状态不回滚。
type CartMachine struct {
	container *Container[domain.CartState]
	store     store.CartStore
	lg        *zap.Logger

	mu sync.Mutex // 串行化命令执行
}

// NewCartMachine 创建购物车状态机并从持久化存储恢复已有条目。
// 恢复的数据经过 NewCartState 归一化，非法条目（数量小于1、ID重复）被丢弃。
func NewCartMachine(ctx context.Context, st store.CartStore, lg *zap.Logger) *CartMachine {
	initial := domain.NewCartState(st.Load(ctx))
	return &CartMachine{
		container: NewContainer(initial),
		store:     st,
		lg:        lg,
	}
}

// State 返回当前购物车快照
func (m *CartMachine) State() domain.CartState {
	return m.container.Snapshot()
}

// Subscribe 订阅后续的购物车快照
func (m *CartMachine) Subscribe(buffer int) (<-chan domain.CartState, func()) {
	return m.container.Subscribe(buffer)
}

// AddToCart 加入商品：已存在则数量加1，否则追加数量为1的新条目
func (m *CartMachine) AddToCart(ctx context.Context, product domain.Product) domain.CartState {
	return m.apply(ctx, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].Product.ID == product.ID {
				items[i].Quantity++
				return items
			}
		}
		return append(items, domain.CartItem{Product: product, Quantity: 1})
	})
}

// RemoveFromCart 整条移除指定商品，无论数量多少。
// 商品不在购物车中时是空操作，但派生字段仍会重算并写穿一次。
func (m *CartMachine) RemoveFromCart(ctx context.Context, productID int64) domain.CartState {
	return m.apply(ctx, func(items []domain.CartItem) []domain.CartItem {
		kept := items[:0]
		for _, item := range items {
			if item.Product.ID != productID {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

// UpdateQuantity 将指定商品的数量设置为绝对值（不是增量）。
// quantity小于等于0时等价于 RemoveFromCart；商品不存在时是空操作。
func (m *CartMachine) UpdateQuantity(ctx context.Context, productID int64, quantity int) domain.CartState {
	if quantity <= 0 {
		// 数量归零没有保留意义，直接移除
		return m.RemoveFromCart(ctx, productID)
	}

	return m.apply(ctx, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].Product.ID == productID {
				items[i].Quantity = quantity
				break
			}
		}
		return items
	})
}

// ClearCart 清空购物车（结算完成或用户主动重置时调用）。
// 与普通变更不同，这里直接删除持久化的购物车数据，而不是写入空列表。
func (m *CartMachine) ClearCart(ctx context.Context) domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := domain.EmptyCartState()
	m.container.publish(next)

	if err := m.store.Clear(ctx); err != nil {
		m.lg.Sugar().Warnw("cart clear failed", "err", err)
	}
	return next
}

// apply 串行执行一次购物车变更：
// 基于当前快照的条目副本计算新状态，先发布快照，再写穿到存储。
// 写入排在发布之后，观察者不会看到尚未安排写入的状态。
func (m *CartMachine) apply(ctx context.Context, mutate func([]domain.CartItem) []domain.CartItem) domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.container.Snapshot()
	items := make([]domain.CartItem, len(cur.Items))
	copy(items, cur.Items)

	next := domain.NewCartState(mutate(items))
	m.container.publish(next)

	if err := m.store.Save(ctx, next.Items); err != nil {
		m.lg.Sugar().Warnw("cart write-through failed", "err", err)
	}
	return next
}
