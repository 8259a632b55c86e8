package kvstore

import (
	"context"

	"github.com/goccy/go-json"
)

// LoadJSON 读槽位并反序列化。槽位不存在或负载损坏时返回 zero 与 ok=false，
// 不把解析错误抛给调用方（损坏数据按空处理是对外契约）
func LoadJSON[T any](ctx context.Context, s Slot, out *T) (ok bool, err error) {
	b, ok, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if !ok || len(b) == 0 {
		return false, nil
	}
	if e := json.Unmarshal(b, out); e != nil {
		return false, nil
	}
	return true, nil
}

func SaveJSON[T any](ctx context.Context, s Slot, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Save(ctx, b)
}
