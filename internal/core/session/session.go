// Package session 显式会话状态：token 与当前用户。
// 原始前端把两者散落在 localStorage 里由各模块各自读取；这里收敛成一个
// 注入式对象，持久化走一个 kvstore 槽位，生命周期只有 Load/Set/Clear。
package session

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"hospitalink-admin/internal/kvstore"
)

type State struct {
	Token string          `json:"token,omitempty"`
	User  json.RawMessage `json:"user,omitempty"` // 上游返回的 user 原样保存
}

type Session struct {
	mu   sync.RWMutex
	slot kvstore.Slot
	st   State
}

func New(slot kvstore.Slot) *Session {
	return &Session{slot: slot}
}

// Load 启动时恢复持久化的会话；槽位缺失或损坏按未登录处理
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st State
	if _, err := kvstore.LoadJSON(ctx, s.slot, &st); err != nil {
		return err
	}
	s.st = st
	return nil
}

func (s *Session) Set(ctx context.Context, token string, user json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = State{Token: token, User: user}
	return kvstore.SaveJSON(ctx, s.slot, s.st)
}

// Clear 登出或收到 401 时调用：清内存态并清空槽位
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = State{}
	return s.slot.Clear(ctx)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Token
}

func (s *Session) User() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.User
}

func (s *Session) Authenticated() bool { return s.Token() != "" }
