package pagination

// Column 表头定义；Key 对应行对象的 JSON 字段
type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// View {列定义, 当前页的行, 分页状态} 的纯函数产物，直接作为页面响应
type View[T any] struct {
	Columns    []Column `json:"columns"`
	Rows       []T      `json:"rows"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Window     []Item   `json:"window"`
	CanPrev    bool     `json:"canPrev"`
	CanNext    bool     `json:"canNext"`
	From       int      `json:"from"`
	To         int      `json:"to"`
}

func NewView[T any](cols []Column, rows []T, p, pageSize, totalItems int) View[T] {
	tp := TotalPages(totalItems, pageSize)
	from, to := Range(p, pageSize, totalItems)
	if rows == nil {
		rows = []T{}
	}
	return View[T]{
		Columns:    cols,
		Rows:       rows,
		Page:       p,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: tp,
		Window:     Window(p, tp),
		CanPrev:    CanPrev(p),
		CanNext:    CanNext(p, tp),
		From:       from,
		To:         to,
	}
}
