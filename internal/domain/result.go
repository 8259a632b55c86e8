package domain

// Result 所有 service 操作的统一返回壳。
// 约定：Success=true 时 Data 有效（void 操作除外）；false 时 Error 非空、Data 为零值
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func OkMsg[T any](data T, msg string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: msg}
}

func Fail[T any](errMsg string) Result[T] {
	return Result[T]{Success: false, Error: errMsg}
}
