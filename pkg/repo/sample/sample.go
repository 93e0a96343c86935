package sample

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"
	clause "gorm.io/gorm/clause"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
)

type sampleImpl struct {
	repo.IDOrUUIDTranslate
}

func New() repo.SampleRepo {
	return &sampleImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (s *sampleImpl) CreateSamples(ctx context.Context, samples []*model.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	if err := s.DBWithContext(ctx).Create(samples).Error; err != nil {
		logger.Errorf(ctx, "CreateSamples err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (s *sampleImpl) GetSample(ctx context.Context, id uuid.UUID) (*model.Sample, error) {
	data := &model.Sample{}
	err := s.DBWithContext(ctx).
		Preload("Species").
		Preload("Species.LocationType").
		Preload("Location").
		Preload("Location.Types").
		Preload("SampleType").
		Where("uuid = ?", id).
		First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.SampleNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (s *sampleImpl) GetSampleByID(ctx context.Context, id int64) (*model.Sample, error) {
	data := &model.Sample{}
	err := s.DBWithContext(ctx).Preload("Species").Where("id = ?", id).First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.SampleNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (s *sampleImpl) ListByOrder(ctx context.Context, orderID int64) ([]*model.Sample, error) {
	var list []*model.Sample
	err := s.DBWithContext(ctx).
		Preload("Species").
		Preload("Species.LocationType").
		Preload("Species.Markers").
		Preload("Location").
		Preload("Location.Types").
		Preload("SampleType").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (s *sampleImpl) CountByOrder(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	err := s.DBWithContext(ctx).Model(&model.Sample{}).
		Where("order_id = ?", orderID).
		Count(&total).Error
	if err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}

func (s *sampleImpl) ListUnassigned(ctx context.Context, orderID int64, selected []int64) ([]*model.Sample, error) {
	db := s.DBWithContext(ctx).
		Preload("Species").
		Where("order_id = ? AND genlab_id IS NULL", orderID)
	if len(selected) > 0 {
		db = db.Where("id IN ?", selected)
	}

	var list []*model.Sample
	if err := db.Order("id").Find(&list).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (s *sampleImpl) ListIsolatable(ctx context.Context, orderID int64) ([]*model.Sample, error) {
	var list []*model.Sample
	err := s.DBWithContext(ctx).
		Preload("Species").
		Preload("Location").
		Joins("LEFT JOIN species ON species.id = sample.species_id").
		Joins("LEFT JOIN location ON location.id = sample.location_id").
		Where("sample.order_id = ? AND sample.genlab_id IS NOT NULL AND sample.is_isolated = ?", orderID, false).
		Order("sample.year, species.name, location.name, sample.id").
		Find(&list).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (s *sampleImpl) UpdateSample(ctx context.Context, sampleID int64, data map[string]any) error {
	res := s.DBWithContext(ctx).Model(&model.Sample{}).Where("id = ?", sampleID).Updates(data)
	if res.Error != nil {
		logger.Errorf(ctx, "UpdateSample err: %+v", res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.SampleNotFound
	}
	return nil
}

func (s *sampleImpl) SetGenlabID(ctx context.Context, sampleID int64, genlabID string) error {
	res := s.DBWithContext(ctx).Model(&model.Sample{}).
		Where("id = ? AND genlab_id IS NULL", sampleID).
		UpdateColumn("genlab_id", genlabID)
	if res.Error != nil {
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.ConflictErr.WithMsg("sample already carries a genlab id")
	}
	return nil
}

func (s *sampleImpl) SetIsolated(ctx context.Context, sampleIDs []int64) error {
	if len(sampleIDs) == 0 {
		return nil
	}
	err := s.DBWithContext(ctx).Model(&model.Sample{}).
		Where("id IN ?", sampleIDs).
		UpdateColumn("is_isolated", true).Error
	if err != nil {
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

// UpsertAnalyses inserts the rows or, when the (sample, order, marker)
// key exists, refreshes the cascade stamp only.
func (s *sampleImpl) UpsertAnalyses(ctx context.Context, rows []*model.SampleMarkerAnalysis) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.DBWithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "sample_id"},
			{Name: "order_id"},
			{Name: "marker_name"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"transaction", "updated_at"}),
	}).Create(rows).Error
	if err != nil {
		logger.Errorf(ctx, "UpsertAnalyses err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (s *sampleImpl) DeleteStaleAnalyses(ctx context.Context, orderID int64, stamp uuid.UUID) (int64, error) {
	res := s.DBWithContext(ctx).
		Where(`order_id = ? AND "transaction" <> ?`, orderID, stamp).
		Delete(&model.SampleMarkerAnalysis{})
	if res.Error != nil {
		return 0, code.DeleteDataErr.WithErr(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *sampleImpl) ListAnalysesByOrder(ctx context.Context, orderID int64) ([]*model.SampleMarkerAnalysis, error) {
	var list []*model.SampleMarkerAnalysis
	err := s.DBWithContext(ctx).
		Preload("Sample").
		Preload("Marker").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (s *sampleImpl) CountAnalysesByOrder(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	err := s.DBWithContext(ctx).Model(&model.SampleMarkerAnalysis{}).
		Where("order_id = ?", orderID).
		Count(&total).Error
	if err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}
