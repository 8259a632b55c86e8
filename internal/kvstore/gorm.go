package kvstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotModel kv_slots 表：name 主键，value 为 JSON 负载。
// value 不写具体列类型，由方言各自选字节类型（mysql 的 blob 只有 64KB，
// postgres 根本没有 blob）
type SlotModel struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     []byte
	UpdatedAt time.Time
}

func (SlotModel) TableName() string { return "kv_slots" }

// GormSlot 数据库里的一行即一个槽位
type GormSlot struct {
	db   *gorm.DB
	name string
}

func NewGormSlot(db *gorm.DB, name string) *GormSlot {
	return &GormSlot{db: db, name: name}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&SlotModel{}) }

func (s *GormSlot) Load(ctx context.Context) ([]byte, bool, error) {
	var m SlotModel
	err := s.db.WithContext(ctx).First(&m, "name = ?", s.name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m.Value, true, nil
}

func (s *GormSlot) Save(ctx context.Context, data []byte) error {
	m := SlotModel{Name: s.name, Value: data, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&m).Error
}

func (s *GormSlot) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&SlotModel{}, "name = ?", s.name).Error
}
