package patient

import (
	"context"

	"go.uber.org/zap"

	"hospitalink-admin/internal/domain"
)

// seedInputs 首次启动的示例数据，与原始前端的 dummy 集一致
var seedInputs = []domain.PatientInput{
	{
		Name:      "Budi Santoso",
		NIK:       "3173xxxxxxxx001",
		BirthDate: "1990-05-20",
		Gender:    domain.GenderMale,
		Phone:     "081234567890",
		Address:   "Jl. Merdeka No. 1, Jakarta",
	},
	{
		Name:      "Siti Aminah",
		NIK:       "3173xxxxxxxx002",
		BirthDate: "1992-08-11",
		Gender:    domain.GenderFemale,
		Phone:     "081298765432",
		Address:   "Jl. Sudirman No. 12, Bandung",
	},
	{
		Name:      "Ahmad Rizki",
		NIK:       "3173xxxxxxxx003",
		BirthDate: "1985-12-03",
		Gender:    domain.GenderMale,
		Phone:     "081345678901",
		Address:   "Jl. Gatot Subroto No. 45, Surabaya",
	},
}

// SeedSize 固定播种条数
const SeedSize = 3

func (s *Service) seed(ctx context.Context) ([]domain.Patient, error) {
	now := s.now()
	list := make([]domain.Patient, 0, len(seedInputs))
	for _, in := range seedInputs {
		list = append(list, domain.Patient{
			ID:        s.newID(),
			Name:      in.Name,
			NIK:       in.NIK,
			BirthDate: in.BirthDate,
			Gender:    in.Gender,
			Phone:     in.Phone,
			Address:   in.Address,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Seed 对外暴露给 cmd/seed 使用：仅当槽位为空时写入
func (s *Service) Seed(ctx context.Context) domain.Result[[]domain.Patient] {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Error("load patients", zap.Error(err))
		return domain.Fail[[]domain.Patient]("failed to seed patients")
	}
	if len(list) > 0 {
		return domain.OkMsg(list, "store already populated")
	}
	seeded, err := s.seed(ctx)
	if err != nil {
		return domain.Fail[[]domain.Patient]("failed to seed patients")
	}
	return domain.OkMsg(seeded, "seed data loaded")
}
