package domain

// User 由远端 admin API 维护；本端只消费 API 返回的字段，不做本地改写
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone,omitempty"`
	NIK       string `json:"nik,omitempty"`
	Gender    string `json:"gender,omitempty"` // API 枚举词（"MALE"/"FEMALE"）
	Role      string `json:"role,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type UserCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone,omitempty"`
	NIK      string `json:"nik,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type UserUpdate struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	NIK      string `json:"nik,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Pagination 服务端分页元数据，原样透传
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalUsers  int `json:"totalUsers"`
	Limit       int `json:"limit"`
}
