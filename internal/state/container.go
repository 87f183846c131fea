// Package state 实现购物车与商品目录的可观察状态机。
package state

import (
	"sync"
)

// Container 单写者可观察状态容器。
// 观察者随时可以同步读取当前快照，或订阅后续发布的每个快照。
// publish 不导出，只有同包内的状态机能够产生新快照，
// 从构造上保证单写者纪律。
type Container[T any] struct {
	mu     sync.Mutex
	cur    T
	subs   map[int]chan T
	nextID int
}

// NewContainer 创建以initial为当前快照的容器
func NewContainer[T any](initial T) *Container[T] {
	return &Container[T]{
		cur:  initial,
		subs: make(map[int]chan T),
	}
}

// Snapshot 返回当前状态快照
func (c *Container[T]) Snapshot() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Subscribe 注册观察者，返回接收后续快照的通道和取消函数。
// buffer 指定通道缓冲，最小为1。消费不及时时丢弃最旧的快照，
// 通道中始终保留最新状态，观察者不会因落后而阻塞发布方。
func (c *Container[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish 替换当前快照并通知全部观察者
func (c *Container[T]) publish(next T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cur = next
	for _, ch := range c.subs {
		select {
		case ch <- next:
		default:
			// 通道已满：丢一个最旧的，给最新快照腾位置
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}
