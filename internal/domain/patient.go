package domain

import "time"

type Patient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIK       string    `json:"nik"`
	BirthDate string    `json:"birthDate"` // "2006-01-02"
	Gender    Gender    `json:"gender"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PatientInput 表单字段集；id/时间戳由 service 层生成，调用方不可指定
type PatientInput struct {
	Name      string `json:"name" binding:"required"`
	NIK       string `json:"nik" binding:"required"`
	BirthDate string `json:"birthDate"`
	Gender    Gender `json:"gender" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// PatientPatch 部分更新；nil 字段表示保持原值
type PatientPatch struct {
	Name      *string `json:"name"`
	NIK       *string `json:"nik"`
	BirthDate *string `json:"birthDate"`
	Gender    *Gender `json:"gender"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

type SearchQuery struct {
	Query  string `form:"q"`
	Gender Gender `form:"gender"`
	Limit  int    `form:"limit"`
}

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByCreatedAt SortKey = "createdAt"
	SortByUpdatedAt SortKey = "updatedAt"
)

type DateRange struct {
	Start string `json:"start" form:"start"` // 含边界
	End   string `json:"end" form:"end"`
}

type FilterOptions struct {
	Gender    Gender     `form:"gender"`
	DateRange *DateRange `json:"dateRange"`
	SortBy    SortKey    `form:"sortBy"`
	SortOrder string     `form:"sortOrder"` // "asc" | "desc"
}

// PatientStats 每次查询都从全量列表重算，O(n)，不做增量维护
type PatientStats struct {
	Total       int `json:"total"`
	Male        int `json:"male"`
	Female      int `json:"female"`
	RecentAdded int `json:"recentAdded"` // 最近 7 天
}
