// Package store 实现购物车条目的持久化。
// 每次购物车变更都会写穿到底层键值存储，构造状态机时再从这里恢复。
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/drund/storedemo/internal/cache"
	"github.com/drund/storedemo/internal/domain"
)

// DefaultCartKey 购物车条目列表的默认存储键
const DefaultCartKey = "cart:items"

// CartStore 定义购物车持久化接口
type CartStore interface {
	// Load 读取已保存的购物车条目。
	// 数据缺失或反序列化失败时返回空列表，错误不向上传递。
	Load(ctx context.Context) []domain.CartItem

	// Save 将当前条目列表整体写入存储
	Save(ctx context.Context, items []domain.CartItem) error

	// Clear 删除已保存的购物车数据
	Clear(ctx context.Context) error
}

// cacheCartStore 基于键值存储的购物车持久化实现
type cacheCartStore struct {
	cache cache.Cache
	key   string
	lg    *zap.Logger
}

// NewCartStore 创建购物车持久化实例，key为空时使用默认键
func NewCartStore(c cache.Cache, key string, lg *zap.Logger) CartStore {
	if key == "" {
		key = DefaultCartKey
	}
	return &cacheCartStore{
		cache: c,
		key:   key,
		lg:    lg,
	}
}

// Load 读取已保存的购物车条目。
// 历史版本的数据模型变更或手工篡改都可能导致反序列化失败，
// 此时一律按空购物车处理，不让用户看到错误。
func (s *cacheCartStore) Load(ctx context.Context) []domain.CartItem {
	var items []domain.CartItem
	if err := s.cache.Get(ctx, s.key, &items); err != nil {
		s.lg.Sugar().Debugw("cart load fell back to empty", "key", s.key, "reason", err)
		return nil
	}
	return items
}

// Save 将条目列表整体序列化写入，不设置过期时间（购物车跨会话保留）
func (s *cacheCartStore) Save(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := s.cache.Set(ctx, s.key, items, 0); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear 删除已保存的购物车数据
func (s *cacheCartStore) Clear(ctx context.Context) error {
	if err := s.cache.Del(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
