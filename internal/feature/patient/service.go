// Package patient 本地槽位版 CRUD：病人列表整体存在一个 JSON 槽位里，
// 每个操作都是 读全量 → 变换 → 写回。所有操作都以 Result 壳收口，
// 存储层异常只记日志，绝不向调用方抛裸错误。
package patient

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"hospitalink-admin/internal/domain"
	"hospitalink-admin/internal/kvstore"
	"hospitalink-admin/pkg/utils"
)

const recentWindow = 7 * 24 * time.Hour

type Service struct {
	slot kvstore.Slot
	log  *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(slot kvstore.Slot, log *zap.Logger) *Service {
	return &Service{
		slot:  slot,
		log:   log,
		now:   time.Now,
		newID: utils.NewID,
	}
}

// load 槽位缺失或负载损坏一律按空列表处理
func (s *Service) load(ctx context.Context) ([]domain.Patient, error) {
	var list []domain.Patient
	if _, err := kvstore.LoadJSON(ctx, s.slot, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, list []domain.Patient) error {
	return kvstore.SaveJSON(ctx, s.slot, list)
}

// GetAll 返回全部记录；首次发现槽位为空时用示例数据播种（一次性副作用）
func (s *Service) GetAll(ctx context.Context) domain.Result[[]domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[[]domain.Patient]("failed to load patients")
	}
	if len(list) == 0 {
		seeded, err := s.seed(ctx)
		if err != nil {
			s.log.Error("seed patients", zap.Error(err))
			return domain.Fail[[]domain.Patient]("failed to load patients")
		}
		return domain.OkMsg(seeded, "seed data loaded")
	}
	return domain.OkMsg(list, "patients loaded")
}

func (s *Service) GetByID(ctx context.Context, id string) domain.Result[domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[domain.Patient]("failed to load patient detail")
	}
	for _, p := range list {
		if p.ID == id {
			return domain.OkMsg(p, "patient detail loaded")
		}
	}
	return domain.Fail[domain.Patient]("patient not found")
}

// Create 生成 id 与两个时间戳，新记录插到最前（最近优先序）
func (s *Service) Create(ctx context.Context, in domain.PatientInput) domain.Result[domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[domain.Patient]("failed to create patient")
	}
	now := s.now()
	p := domain.Patient{
		ID:        s.newID(),
		Name:      in.Name,
		NIK:       in.NIK,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	list = append([]domain.Patient{p}, list...)
	if err := s.save(ctx, list); err != nil {
		s.log.Error("save patients", zap.Error(err))
		return domain.Fail[domain.Patient]("failed to create patient")
	}
	return domain.OkMsg(p, "patient created")
}

// Update 浅合并；id 不可变，updatedAt 刷新
func (s *Service) Update(ctx context.Context, id string, patch domain.PatientPatch) domain.Result[domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[domain.Patient]("failed to update patient")
	}
	idx := -1
	for i, p := range list {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Fail[domain.Patient]("patient not found")
	}

	p := list[idx]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.NIK != nil {
		p.NIK = *patch.NIK
	}
	if patch.BirthDate != nil {
		p.BirthDate = *patch.BirthDate
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	p.ID = id
	p.UpdatedAt = s.now()

	list[idx] = p
	if err := s.save(ctx, list); err != nil {
		s.log.Error("save patients", zap.Error(err))
		return domain.Fail[domain.Patient]("failed to update patient")
	}
	return domain.OkMsg(p, "patient updated")
}

// Delete 未命中时报失败且不回写（列表长度不变）
func (s *Service) Delete(ctx context.Context, id string) domain.Result[bool] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[bool]("failed to delete patient")
	}
	kept := list[:0:0]
	for _, p := range list {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(list) {
		return domain.Fail[bool]("patient not found")
	}
	if err := s.save(ctx, kept); err != nil {
		s.log.Error("save patients", zap.Error(err))
		return domain.Fail[bool]("failed to delete patient")
	}
	return domain.OkMsg(true, "patient deleted")
}

// Search 文本过滤 → 性别过滤 → 截断，三段按序独立生效。
// 空白 query 不过滤文本（整表通过）
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) domain.Result[[]domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[[]domain.Patient]("search failed")
	}
	filtered := list
	if needle := strings.ToLower(strings.TrimSpace(q.Query)); needle != "" {
		match := filtered[:0:0]
		for _, p := range filtered {
			for _, field := range []string{p.Name, p.NIK, p.Phone, p.Address} {
				if strings.Contains(strings.ToLower(field), needle) {
					match = append(match, p)
					break
				}
			}
		}
		filtered = match
	}
	if q.Gender != "" {
		match := filtered[:0:0]
		for _, p := range filtered {
			if p.Gender == q.Gender {
				match = append(match, p)
			}
		}
		filtered = match
	}
	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}
	return domain.OkMsg(filtered, "search completed")
}

// Filter 性别精确匹配 + createdAt 闭区间 + 单键排序（稳定，平局保持原序）
func (s *Service) Filter(ctx context.Context, opt domain.FilterOptions) domain.Result[[]domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[[]domain.Patient]("filter failed")
	}
	if opt.Gender != "" {
		match := list[:0:0]
		for _, p := range list {
			if p.Gender == opt.Gender {
				match = append(match, p)
			}
		}
		list = match
	}
	if opt.DateRange != nil {
		start, okStart := parseDate(opt.DateRange.Start)
		end, okEnd := parseDate(opt.DateRange.End)
		match := list[:0:0]
		for _, p := range list {
			if okStart && p.CreatedAt.Before(start) {
				continue
			}
			if okEnd && p.CreatedAt.After(end) {
				continue
			}
			match = append(match, p)
		}
		list = match
	}
	if opt.SortBy != "" {
		desc := opt.SortOrder == "desc"
		sort.SliceStable(list, func(i, j int) bool {
			less := false
			switch opt.SortBy {
			case domain.SortByCreatedAt:
				less = list[i].CreatedAt.Before(list[j].CreatedAt)
			case domain.SortByUpdatedAt:
				less = list[i].UpdatedAt.Before(list[j].UpdatedAt)
			default: // name
				less = list[i].Name < list[j].Name
			}
			if desc {
				return !less && !equalKey(list[i], list[j], opt.SortBy)
			}
			return less
		})
	}
	return domain.OkMsg(list, "filter applied")
}

func equalKey(a, b domain.Patient, key domain.SortKey) bool {
	switch key {
	case domain.SortByCreatedAt:
		return a.CreatedAt.Equal(b.CreatedAt)
	case domain.SortByUpdatedAt:
		return a.UpdatedAt.Equal(b.UpdatedAt)
	default:
		return a.Name == b.Name
	}
}

// GetStats 每次都全量重算，不维护增量计数
func (s *Service) GetStats(ctx context.Context) domain.Result[domain.PatientStats] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[domain.PatientStats]("failed to load stats")
	}
	cutoff := s.now().Add(-recentWindow)
	st := domain.PatientStats{Total: len(list)}
	for _, p := range list {
		switch p.Gender {
		case domain.GenderMale:
			st.Male++
		case domain.GenderFemale:
			st.Female++
		}
		if !p.CreatedAt.Before(cutoff) {
			st.RecentAdded++
		}
	}
	return domain.OkMsg(st, "stats loaded")
}

func (s *Service) ClearAll(ctx context.Context) domain.Result[struct{}] {
	if err := s.slot.Clear(ctx); err != nil {
		s.log.Error("clear patients", zap.Error(err))
		return domain.Fail[struct{}]("failed to clear patients")
	}
	return domain.OkMsg(struct{}{}, "all patients cleared")
}

func (s *Service) GetCount(ctx context.Context) domain.Result[int] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[int]("failed to count patients")
	}
	return domain.OkMsg(len(list), "patient count loaded")
}

func (s *Service) GetByGender(ctx context.Context, g domain.Gender) domain.Result[[]domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[[]domain.Patient]("failed to load patients by gender")
	}
	match := list[:0:0]
	for _, p := range list {
		if p.Gender == g {
			match = append(match, p)
		}
	}
	return domain.OkMsg(match, "patients by gender loaded")
}

// GetRecent createdAt 降序取前 limit 条；limit<=0 时取默认 10
func (s *Service) GetRecent(ctx context.Context, limit int) domain.Result[[]domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[[]domain.Patient]("failed to load recent patients")
	}
	if limit <= 0 {
		limit = 10
	}
	sorted := append([]domain.Patient(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return domain.OkMsg(sorted, "recent patients loaded")
}

// parseDate 支持 RFC3339 与纯日期两种写法
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
