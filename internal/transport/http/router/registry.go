package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Module 页面控制器统一通过该接口挂到 /api/v1 上
type Module interface{ MountAPI(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂，默认 100）
type prioritizer interface{ Priority() int }

// Registry 每个 engine 一份，避免跨实例重复挂载
type Registry struct {
	mu   sync.RWMutex
	mods []Module
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods = append(r.mods, m)
}

// MountAll 按优先级把已注册模块挂载到分组上
func (r *Registry) MountAll(api *gin.RouterGroup) {
	r.mu.RLock()
	list := append([]Module(nil), r.mods...)
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		return priorityOf(list[i]) < priorityOf(list[j])
	})
	for _, m := range list {
		m.MountAPI(api)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
