package plate

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
)

type plateImpl struct {
	repo.IDOrUUIDTranslate
}

func New() repo.PlateRepo {
	return &plateImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

// LastPlate returns the newest plate together with how many of its
// wells are taken, or (nil, 0, nil) when no plate exists yet.
func (p *plateImpl) LastPlate(ctx context.Context) (*model.ExtractionPlate, int64, error) {
	data := &model.ExtractionPlate{}
	err := p.DBWithContext(ctx).Order("id DESC").First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	var used int64
	err = p.DBWithContext(ctx).Model(&model.ExtractPlatePosition{}).
		Where("plate_id = ?", data.ID).
		Count(&used).Error
	if err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return data, used, nil
}

func (p *plateImpl) CreatePlate(ctx context.Context, plate *model.ExtractionPlate) error {
	if err := p.DBWithContext(ctx).Create(plate).Error; err != nil {
		logger.Errorf(ctx, "CreatePlate err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (p *plateImpl) CreatePosition(ctx context.Context, pos *model.ExtractPlatePosition) error {
	if err := p.DBWithContext(ctx).Create(pos).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return code.ConflictErr.WithErr(err)
		}
		logger.Errorf(ctx, "CreatePosition err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (p *plateImpl) ListPositions(ctx context.Context, plateID int64) ([]*model.ExtractPlatePosition, error) {
	var list []*model.ExtractPlatePosition
	err := p.DBWithContext(ctx).
		Preload("Plate").
		Preload("Sample").
		Where("plate_id = ?", plateID).
		Order("position").
		Find(&list).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (p *plateImpl) ListPositionsBySample(ctx context.Context, sampleID int64) ([]*model.ExtractPlatePosition, error) {
	var list []*model.ExtractPlatePosition
	err := p.DBWithContext(ctx).
		Preload("Plate").
		Preload("Sample").
		Where("sample_id = ?", sampleID).
		Order("plate_id, position").
		Find(&list).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}
