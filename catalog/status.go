package catalog

import (
	"sync"
	"time"
)

// State 拉取状态
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Color 状态灯颜色
func (s State) Color() string {
	switch s {
	case StateLoading:
		return "yellow"
	case StateReady:
		return "green"
	case StateError:
		return "red"
	default:
		return "gray"
	}
}

// Status 对外只读的状态快照
type Status struct {
	State     State     `json:"state"`
	Color     string    `json:"color"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	Models    int       `json:"models"`
	Fetches   int64     `json:"fetches"`
	Failures  int64     `json:"failures"`
}

// StatusTracker 维护 idle -> loading -> ready|error 状态机
type StatusTracker struct {
	mutex  sync.RWMutex
	status Status
	now    func() time.Time
}

// NewStatusTracker 初始状态为idle
func NewStatusTracker() *StatusTracker {
	t := &StatusTracker{now: time.Now}
	t.status = Status{State: StateIdle, Color: StateIdle.Color(), UpdatedAt: t.now()}
	return t
}

// Snapshot 返回当前状态副本
func (t *StatusTracker) Snapshot() Status {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.status
}

func (t *StatusTracker) set(state State, message string) {
	t.status.State = state
	t.status.Color = state.Color()
	t.status.Message = message
	t.status.UpdatedAt = t.now()
}

// Begin 进入loading，任意状态均可开始新的拉取
func (t *StatusTracker) Begin() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.status.Fetches++
	t.set(StateLoading, "")
}

// Succeed 拉取成功
func (t *StatusTracker) Succeed(models int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.status.Models = models
	t.set(StateReady, "Models loaded successfully")
}

// Fail 拉取失败，保留上一次的模型数量
func (t *StatusTracker) Fail(err error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.status.Failures++
	t.set(StateError, "Failed to load models. Using cached data or please check your connection: "+err.Error())
}

// MarkCached 启动时从快照加载成功
func (t *StatusTracker) MarkCached(models int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.status.Models = models
	t.set(StateReady, "Loaded cached models")
}
