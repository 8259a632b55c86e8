// Package pagination 分页条的纯计算部分：总页数、翻页守卫、页码窗口。
// 组件自身不取数也不切片；每个调用方只递给它当前页的行和总条数
// （病人页在控制器里按 page/pageSize 切本地过滤集，用户页透传服务端分页）。
package pagination

// Item 页码条上的一个格子：页码或省略号
type Item struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

func page(p int) Item { return Item{Page: p} }
func gap() Item       { return Item{Ellipsis: true} }

// TotalPages = max(1, ceil(totalItems/pageSize))，永不小于 1
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	n := (totalItems + pageSize - 1) / pageSize
	if n < 1 {
		return 1
	}
	return n
}

func CanPrev(p int) bool             { return p > 1 }
func CanNext(p, totalPages int) bool { return p < totalPages }

// Goto 越界目标静默忽略（不钳位、不跳转），ok=false
func Goto(target, totalPages int) (int, bool) {
	if target < 1 || target > totalPages {
		return 0, false
	}
	return target, true
}

const maxVisiblePages = 5

// Window 页码窗口，省略号折叠规则与前端实现逐分支一致：
//   totalPages<=5        → 全部页码
//   page<=3              → 1 2 3 4 … N
//   page>=totalPages-2   → 1 … 最后四页
//   否则                  → 1 … page-1 page page+1 … N
func Window(p, totalPages int) []Item {
	var items []Item
	if totalPages <= maxVisiblePages {
		for i := 1; i <= totalPages; i++ {
			items = append(items, page(i))
		}
		return items
	}
	switch {
	case p <= 3:
		for i := 1; i <= 4; i++ {
			items = append(items, page(i))
		}
		items = append(items, gap(), page(totalPages))
	case p >= totalPages-2:
		items = append(items, page(1), gap())
		for i := totalPages - 3; i <= totalPages; i++ {
			items = append(items, page(i))
		}
	default:
		items = append(items, page(1), gap())
		for i := p - 1; i <= p+1; i++ {
			items = append(items, page(i))
		}
		items = append(items, gap(), page(totalPages))
	}
	return items
}

// Range 当前页展示区间（1 起始，闭区间）；空表为 0–0
func Range(p, pageSize, totalItems int) (from, to int) {
	if totalItems == 0 {
		return 0, 0
	}
	from = (p-1)*pageSize + 1
	to = p * pageSize
	if to > totalItems {
		to = totalItems
	}
	return from, to
}

// SlicePage 调用方切片的辅助：返回第 p 页的区间
func SlicePage[T any](list []T, p, pageSize int) []T {
	if pageSize <= 0 || p < 1 {
		return list
	}
	start := (p - 1) * pageSize
	if start >= len(list) {
		return []T{}
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
