package response

// Body 对外统一响应壳，与 service 层 Result 同构：
// success=true 时带 data（void 操作除外），false 时带 error
type Body struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

func OK(data any) Body {
	return Body{Success: true, Data: data}
}

func OKMsg(data any, msg string) Body {
	return Body{Success: true, Data: data, Message: msg}
}

// OKPage 列表 + 透传的分页元数据
func OKPage(data, pagination any, msg string) Body {
	return Body{Success: true, Data: data, Pagination: pagination, Message: msg}
}

// Fail msg 为空时退回该状态码的默认文案
func Fail(status int, msg string) Body {
	if msg == "" {
		msg = StatusMsg(status)
	}
	return Body{Success: false, Error: msg}
}
