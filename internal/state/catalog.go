// Package state 实现商品目录状态机。
package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/drund/storedemo/internal/api"
	"github.com/drund/storedemo/internal/domain"
)

// CatalogMachine 商品目录状态机。
// 负责编排全量拉取、按ID选中和重试，并维护目录状态的不可变快照。
// 同一实例在会话期间共享给所有观察者，仅状态机自身产生新快照。
type CatalogMachine struct {
	container *Container[domain.CatalogState]
	client    api.CatalogClient
	lg        *zap.Logger

	mu  sync.Mutex // 串行化命令执行与结果提交
	gen uint64     // 请求代次，只有最新一代的结果才会被提交
}

// NewCatalogMachine 创建目录状态机，初始处于空闲状态
func NewCatalogMachine(client api.CatalogClient, lg *zap.Logger) *CatalogMachine {
	return &CatalogMachine{
		container: NewContainer(domain.NewCatalogState()),
		client:    client,
		lg:        lg,
	}
}

// State 返回当前目录快照
func (m *CatalogMachine) State() domain.CatalogState {
	return m.container.Snapshot()
}

// Subscribe 订阅后续的目录快照
func (m *CatalogMachine) Subscribe(buffer int) (<-chan domain.CatalogState, func()) {
	return m.container.Subscribe(buffer)
}

// Initialize 进入加载状态并拉取全部商品。
// 调用会阻塞到本次请求被提交或被更新的请求淘汰为止；
// 空列表是合法的加载完成状态，不会进入错误态。
func (m *CatalogMachine) Initialize(ctx context.Context) {
	m.fetchAll(ctx)
}

// Retry 重新拉取全部商品，效果与 Initialize 相同。
// 任意状态下（包括加载中）调用都是安全的：新请求淘汰在途的旧请求，
// 旧请求的结果不会覆盖新状态。
func (m *CatalogMachine) Retry(ctx context.Context) {
	m.fetchAll(ctx)
}

// Select 更新选中的商品，纯同步操作，不影响列表、加载和错误字段
func (m *CatalogMachine) Select(product domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.container.Snapshot()
	p := product
	next.SelectedProduct = &p
	m.container.publish(next)
}

// SelectedProduct 返回当前选中的商品，未选中时为nil
func (m *CatalogMachine) SelectedProduct() *domain.Product {
	return m.container.Snapshot().SelectedProduct
}

// SelectByID 按ID拉取商品并设为选中，支持深链到不在当前列表中的商品。
// 拉取不到（不存在或失败）时保持当前选中不变。
func (m *CatalogMachine) SelectByID(ctx context.Context, id int64) {
	res := m.client.FetchOne(ctx, id)
	if res.Status != api.StatusOK {
		m.lg.Sugar().Debugw("select by id yielded no product", "id", id, "err", res.Err)
		return
	}
	m.Select(*res.Product)
}

// ClearAndReload 重置为空闲状态（清空列表和选中）后立即重新拉取，
// 对应下拉刷新场景
func (m *CatalogMachine) ClearAndReload(ctx context.Context) {
	m.mu.Lock()
	m.container.publish(domain.NewCatalogState())
	m.mu.Unlock()

	m.fetchAll(ctx)
}

// fetchAll 发布加载中快照，执行拉取，并在代次仍为最新时提交结果
func (m *CatalogMachine) fetchAll(ctx context.Context) {
	m.mu.Lock()
	m.gen++
	gen := m.gen

	loading := m.container.Snapshot()
	loading.Phase = domain.CatalogLoading
	loading.IsLoading = true
	loading.Error = "" // 发起加载前总是先清空错误
	m.container.publish(loading)
	m.mu.Unlock()

	// 拉取期间不持有锁，加载中仍可执行 Retry / Select
	res := m.client.FetchAll(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		// 已有更新的请求发出，丢弃过期结果
		m.lg.Sugar().Debugw("discarded stale catalog fetch", "gen", gen, "latest", m.gen)
		return
	}

	next := m.container.Snapshot()
	next.IsLoading = false
	if res.Status == api.StatusError {
		next.Phase = domain.CatalogErrored
		next.Error = errorMessage(res.Err)
	} else {
		next.Phase = domain.CatalogLoaded
		next.Error = ""
		if res.Products == nil {
			next.Products = []domain.Product{}
		} else {
			next.Products = res.Products
		}
	}
	m.container.publish(next)
}

func errorMessage(err error) string {
	if err == nil {
		return "failed to load products"
	}
	return err.Error()
}
