package domain

import "strings"

// Gender 使用登记字母码："L"（laki-laki 男）/ "P"（perempuan 女）
type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// APIWord 转上游 API 的枚举词。全函数：未知值按女性处理
func (g Gender) APIWord() string {
	if g == GenderMale {
		return "MALE"
	}
	return "FEMALE"
}

// GenderFromAPI API 值（"MALE"/"FEMALE"，也兼容字母码）转字母码。
// 全函数：空串与其它未知值一律归 "P"，与前端映射保持一致
func GenderFromAPI(s string) Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE", "L":
		return GenderMale
	default:
		return GenderFemale
	}
}
