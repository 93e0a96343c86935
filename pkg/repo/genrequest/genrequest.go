package genrequest

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
)

type genRequestImpl struct {
	repo.IDOrUUIDTranslate
}

func New() repo.GenRequestRepo {
	return &genRequestImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (g *genRequestImpl) CreateGenRequest(ctx context.Context, data *model.GenRequest) error {
	if err := g.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "CreateGenRequest err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (g *genRequestImpl) GetGenRequest(ctx context.Context, id uuid.UUID) (*model.GenRequest, error) {
	data := &model.GenRequest{}
	err := g.DBWithContext(ctx).
		Preload("Area").
		Preload("Species").
		Preload("SampleTypes").
		Preload("Markers").
		Preload("ResponsibleStaff").
		Where("uuid = ?", id).
		First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.GenRequestNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (g *genRequestImpl) GetGenRequestByID(ctx context.Context, id int64) (*model.GenRequest, error) {
	data := &model.GenRequest{}
	err := g.DBWithContext(ctx).
		Preload("Area").
		Preload("ResponsibleStaff").
		First(data, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.GenRequestNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (g *genRequestImpl) UpdateGenRequest(ctx context.Context, id uuid.UUID, data map[string]any) error {
	res := g.DBWithContext(ctx).Model(&model.GenRequest{}).Where("uuid = ?", id).Updates(data)
	if res.Error != nil {
		logger.Errorf(ctx, "UpdateGenRequest err: %+v", res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.GenRequestNotFound
	}
	return nil
}

func (g *genRequestImpl) ListGenRequests(ctx context.Context, q repo.GenRequestQuery) ([]*model.GenRequest, int64, error) {
	db := g.DBWithContext(ctx).Model(&model.GenRequest{})

	if q.User != nil && !q.User.IsStaff {
		db = db.Where(
			"creator_id = ? OR id IN (?)",
			q.User.ID,
			g.DBWithContext(ctx).
				Table("genrequest_staff").
				Select("genrequest_staff.gen_request_id").
				Joins("JOIN \"user\" ON \"user\".id = genrequest_staff.user_id").
				Where("\"user\".external_id = ?", q.User.ID),
		)
	}
	if q.AreaID != nil {
		db = db.Where("area_id = ?", *q.AreaID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "id desc"
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	list := make([]*model.GenRequest, 0, q.Limit)
	if err := db.Preload("Area").Preload("ResponsibleStaff").
		Order(orderBy).Offset(q.Offset).Limit(q.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (g *genRequestImpl) ReplaceResponsibleStaff(ctx context.Context, data *model.GenRequest, staff []model.User) error {
	if err := g.DBWithContext(ctx).Model(data).Association("ResponsibleStaff").Replace(staff); err != nil {
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

// GetOrCreateUsers resolves external identities to local user rows,
// creating the missing ones.
func (g *genRequestImpl) GetOrCreateUsers(ctx context.Context, users []model.User) ([]model.User, error) {
	out := make([]model.User, 0, len(users))
	for i := range users {
		existing := model.User{}
		err := g.DBWithContext(ctx).Where("external_id = ?", users[i].ExternalID).First(&existing).Error
		if err == nil {
			out = append(out, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.QueryRecordErr.WithErr(err)
		}
		if err := g.DBWithContext(ctx).Create(&users[i]).Error; err != nil {
			return nil, code.CreateDataErr.WithErr(err)
		}
		out = append(out, users[i])
	}
	return out, nil
}
