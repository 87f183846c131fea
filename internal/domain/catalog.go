// Package domain 定义商品目录相关的状态快照。
package domain

// CatalogPhase 表示商品目录状态机所处的阶段
type CatalogPhase string

const (
	CatalogIdle    CatalogPhase = "idle"    // 初始状态，尚未发起加载
	CatalogLoading CatalogPhase = "loading" // 加载中
	CatalogLoaded  CatalogPhase = "loaded"  // 加载完成（空列表也是合法的加载完成状态）
	CatalogErrored CatalogPhase = "errored" // 加载失败
)

// CatalogState 表示商品目录的不可变快照。
// SelectedProduct 独立于 Products 维护，在重载和清空后依然保留，
// 因此选中的商品不要求出现在当前列表中（支持深链到详情页的场景）。
// 不变量：IsLoading 与非空 Error 互斥，发起加载时总是先清空错误。
type CatalogState struct {
	Phase           CatalogPhase
	Products        []Product
	SelectedProduct *Product
	IsLoading       bool
	Error           string
}

// NewCatalogState 返回初始的空闲目录快照
func NewCatalogState() CatalogState {
	return CatalogState{Phase: CatalogIdle}
}
