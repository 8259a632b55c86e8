// Package kvstore 提供命名的持久化 KV 槽位：一个名字对应一段 JSON 负载。
// 病人列表、会话等都各占一个固定槽位，读-改-写，最后写入者获胜。
package kvstore

import "context"

// Slot 单个持久化槽位。Load 的 ok=false 表示槽位不存在（视同空列表）
type Slot interface {
	Load(ctx context.Context) (data []byte, ok bool, err error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// 固定槽位名，与原始前端的 localStorage key 对齐
const (
	SlotPatients = "hospitalink_patients"
	SlotSession  = "hospitalink_session"
	SlotUsers    = "hospitalink_users" // 仅本地登录模式使用
)
