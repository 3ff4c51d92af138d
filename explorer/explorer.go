// Package explorer 维护模型列表及其过滤/排序视图
package explorer

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"modelexplorer/catalog"
	"modelexplorer/logger"
	"modelexplorer/types"
)

// ErrNoModels 既没有快照也拉取失败
var ErrNoModels = errors.New("explorer: no models available")

// Source 模型目录来源
type Source interface {
	Fetch(ctx context.Context) ([]types.ModelRecord, error)
	Status() *catalog.StatusTracker
}

// Snapshot 本地快照
type Snapshot interface {
	Load(ctx context.Context) ([]types.ModelRecord, bool)
}

// Options 控制器参数
type Options struct {
	// RefreshInterval 后台定时刷新间隔，<=0 时只在启动时刷新一次
	RefreshInterval time.Duration

	// ExcludedProviders 入库时剔除的提供商
	ExcludedProviders []string
}

// View 会话视图
type View struct {
	Filter FilterState         `json:"filter"`
	Sort   SortState           `json:"sort"`
	Total  int                 `json:"total"`
	Count  int                 `json:"count"`
	Models []types.ModelRecord `json:"models"`
}

// Explorer 持有模型列表和会话内的过滤/排序状态
type Explorer struct {
	source   Source
	snapshot Snapshot
	opts     Options

	mutex  sync.RWMutex
	models []types.ModelRecord
	filter FilterState
	sort   SortState

	lifecycleMutex sync.Mutex
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

// New 创建控制器，snapshot可以为nil
func New(snapshot Snapshot, source Source, opts Options) *Explorer {
	return &Explorer{
		source:   source,
		snapshot: snapshot,
		opts:     opts,
		sort:     DefaultSort,
	}
}

// Start 先加载快照，再在后台刷新；配置了刷新间隔时按间隔重复
func (e *Explorer) Start(ctx context.Context) {
	e.loadSnapshot(ctx)

	e.lifecycleMutex.Lock()
	defer e.lifecycleMutex.Unlock()
	if e.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.refreshLoop(runCtx)
	}()
}

func (e *Explorer) refreshLoop(ctx context.Context) {
	_, _ = e.Refresh(ctx)
	if e.opts.RefreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(e.opts.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = e.Refresh(ctx)
		}
	}
}

// Close 取消后台刷新和未完成的重试，等待goroutine退出
func (e *Explorer) Close() {
	e.lifecycleMutex.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.lifecycleMutex.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

// Load 一次性加载：优先快照，没有快照时同步拉取（CLI使用）
func (e *Explorer) Load(ctx context.Context) (fromCache bool, err error) {
	if e.loadSnapshot(ctx) {
		return true, nil
	}
	if _, err := e.Refresh(ctx); err != nil {
		return false, errors.Join(ErrNoModels, err)
	}
	return false, nil
}

func (e *Explorer) loadSnapshot(ctx context.Context) bool {
	if e.snapshot == nil {
		return false
	}
	models, ok := e.snapshot.Load(ctx)
	if !ok {
		return false
	}
	n := e.SetModels(models)
	e.source.Status().MarkCached(n)
	logger.Info("已加载本地模型快照", logger.Int("count", n))
	return true
}

// Refresh 拉取最新目录，成功时替换列表；失败时保留原列表
func (e *Explorer) Refresh(ctx context.Context) (int, error) {
	models, err := e.source.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return e.SetModels(models), nil
}

// SetModels 替换工作列表，返回剔除后的数量
func (e *Explorer) SetModels(models []types.ModelRecord) int {
	kept := excludeProviders(models, e.opts.ExcludedProviders)

	e.mutex.Lock()
	e.models = kept
	e.mutex.Unlock()
	return len(kept)
}

// Models 完整列表的副本（未过滤）
func (e *Explorer) Models() []types.ModelRecord {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return append([]types.ModelRecord(nil), e.models...)
}

// Len 工作列表中的模型数
func (e *Explorer) Len() int {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return len(e.models)
}

// Status 拉取状态
func (e *Explorer) Status() catalog.Status {
	return e.source.Status().Snapshot()
}

// Filter 当前过滤条件
func (e *Explorer) Filter() FilterState {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.filter.Clone()
}

// SetFilter 合并局部过滤条件
func (e *Explorer) SetFilter(patch FilterPatch) (FilterState, error) {
	if err := patch.Validate(); err != nil {
		return FilterState{}, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.filter = e.filter.Merge(patch)
	return e.filter.Clone(), nil
}

// ResetFilters 清空所有过滤条件，排序不变
func (e *Explorer) ResetFilters() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.filter = FilterState{}
}

// QuickFilter 只选中一个提供商；该提供商已在选中列表里时清空提供商条件
func (e *Explorer) QuickFilter(provider string) FilterState {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if slices.ContainsFunc(e.filter.Providers, func(p string) bool { return strings.EqualFold(p, provider) }) {
		e.filter.Providers = nil
	} else {
		e.filter.Providers = []string{provider}
	}
	return e.filter.Clone()
}

// Sort 当前排序
func (e *Explorer) Sort() SortState {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.sort
}

// SortBy 点击列头：同一列翻转方向，新列升序
func (e *Explorer) SortBy(field string) (SortState, error) {
	f, err := ParseSortField(field)
	if err != nil {
		return SortState{}, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.sort = e.sort.Toggle(f)
	return e.sort, nil
}

// SetSort 直接设置排序
func (e *Explorer) SetSort(field, direction string) (SortState, error) {
	f, err := ParseSortField(field)
	if err != nil {
		return SortState{}, err
	}
	d, err := ParseDirection(direction)
	if err != nil {
		return SortState{}, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.sort = SortState{Field: f, Direction: d}
	return e.sort, nil
}

// VisibleModels 会话过滤+排序后的列表
func (e *Explorer) VisibleModels() []types.ModelRecord {
	return e.View().Models
}

// View 一次读锁内取得过滤条件、排序和结果
func (e *Explorer) View() View {
	e.mutex.RLock()
	models, filter, s := e.models, e.filter.Clone(), e.sort
	e.mutex.RUnlock()

	visible := Visible(models, filter, s)
	return View{Filter: filter, Sort: s, Total: len(models), Count: len(visible), Models: visible}
}

// Query 无状态查询，不影响会话视图
func (e *Explorer) Query(filter FilterState, s SortState) []types.ModelRecord {
	e.mutex.RLock()
	models := e.models
	e.mutex.RUnlock()
	return Visible(models, filter, s)
}

// Model 按id查找
func (e *Explorer) Model(id string) (types.ModelRecord, bool) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	for _, m := range e.models {
		if m.ID == id {
			return m, true
		}
	}
	return types.ModelRecord{}, false
}

// AvailableProviders 当前列表中的提供商
func (e *Explorer) AvailableProviders(query string) []string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return AvailableProviders(e.models, query)
}

// AvailableModalities 当前列表中的输入模态
func (e *Explorer) AvailableModalities(query string) []string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return AvailableModalities(e.models, query)
}
