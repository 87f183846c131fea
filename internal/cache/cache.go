// Package cache 提供键值存储抽象和Redis实现，作为购物车持久化的底层介质。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cache 定义键值存储操作接口。
// expiration 为0表示永不过期，购物车数据需要跨会话保留。
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// MemoryCache 内存存储实现（用于开发和测试，以及Redis不可用时的降级）
type MemoryCache struct {
	mu   sync.Mutex // Get也可能触发过期删除，统一用互斥锁
	data map[string]*memoryCacheItem
}

type memoryCacheItem struct {
	value      []byte
	expiration time.Time // 零值表示永不过期
}

func (i *memoryCacheItem) expired() bool {
	return !i.expiration.IsZero() && time.Now().After(i.expiration)
}

// NewMemoryCache 创建内存存储实例
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]*memoryCacheItem),
	}
}

// Get 获取键值并反序列化到dest
func (m *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.data[key]
	if !exists {
		return fmt.Errorf("key not found")
	}

	// 检查是否过期
	if item.expired() {
		delete(m.data, key)
		return fmt.Errorf("key expired")
	}

	return json.Unmarshal(item.value, dest)
}

// Set 序列化并写入键值
func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expireAt time.Time
	if expiration > 0 {
		expireAt = time.Now().Add(expiration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = &memoryCacheItem{
		value:      data,
		expiration: expireAt,
	}

	return nil
}

// Del 删除键值
func (m *MemoryCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// Exists 检查键是否存在
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.data[key]
	if !exists {
		return false, nil
	}

	if item.expired() {
		delete(m.data, key)
		return false, nil
	}

	return true, nil
}

// Ping 检查连接
func (m *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

// Close 关闭存储并清空数据
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]*memoryCacheItem)
	return nil
}

// NullCache 空存储实现（禁用持久化时使用，购物车退化为仅内存状态）
type NullCache struct{}

// NewNullCache 创建空存储实例
func NewNullCache() *NullCache {
	return &NullCache{}
}

func (n *NullCache) Get(ctx context.Context, key string, dest interface{}) error {
	return fmt.Errorf("cache disabled")
}

func (n *NullCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil // 不做任何操作
}

func (n *NullCache) Del(ctx context.Context, keys ...string) error {
	return nil
}

func (n *NullCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (n *NullCache) Ping(ctx context.Context) error {
	return nil
}

func (n *NullCache) Close() error {
	return nil
}
