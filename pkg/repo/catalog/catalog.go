package catalog

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

type catalogImpl struct {
	repo.IDOrUUIDTranslate
}

func New() repo.CatalogRepo {
	return &catalogImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func list[T any](ctx context.Context, c *catalogImpl, preloads ...string) ([]*T, error) {
	db := c.DBWithContext(ctx)
	for _, p := range preloads {
		db = db.Preload(p)
	}
	var out []*T
	if err := db.Find(&out).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return out, nil
}

func (c *catalogImpl) ListAreas(ctx context.Context) ([]*model.Area, error) {
	return list[model.Area](ctx, c)
}

func (c *catalogImpl) ListSpecies(ctx context.Context) ([]*model.Species, error) {
	return list[model.Species](ctx, c, "Area", "LocationType", "Markers")
}

func (c *catalogImpl) ListSampleTypes(ctx context.Context) ([]*model.SampleType, error) {
	return list[model.SampleType](ctx, c, "Areas")
}

func (c *catalogImpl) ListMarkers(ctx context.Context) ([]*model.Marker, error) {
	return list[model.Marker](ctx, c, "AnalysisType")
}

func (c *catalogImpl) ListLocations(ctx context.Context) ([]*model.Location, error) {
	return list[model.Location](ctx, c, "Types")
}

func (c *catalogImpl) ListLocationTypes(ctx context.Context) ([]*model.LocationType, error) {
	return list[model.LocationType](ctx, c)
}

func (c *catalogImpl) ListIsolationMethods(ctx context.Context) ([]*model.IsolationMethod, error) {
	return list[model.IsolationMethod](ctx, c)
}

func (c *catalogImpl) ListEquipmentTypes(ctx context.Context) ([]*model.EquipmentType, error) {
	return list[model.EquipmentType](ctx, c)
}

func (c *catalogImpl) ListBuffers(ctx context.Context) ([]*model.Buffer, error) {
	return list[model.Buffer](ctx, c)
}

func (c *catalogImpl) GetOrCreateArea(ctx context.Context, name string) (*model.Area, error) {
	data := &model.Area{}
	err := c.DBWithContext(ctx).Where("name = ?", name).First(data).Error
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	data = &model.Area{Name: name}
	if err := c.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "GetOrCreateArea create %q err: %+v", name, err)
		return nil, code.CreateDataErr.WithErr(err)
	}
	return data, nil
}

func (c *catalogImpl) GetOrCreateAnalysisType(ctx context.Context, name string) (*model.AnalysisType, error) {
	data := &model.AnalysisType{}
	err := c.DBWithContext(ctx).Where("name = ?", name).First(data).Error
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	data = &model.AnalysisType{Name: name}
	if err := c.DBWithContext(ctx).Create(data).Error; err != nil {
		return nil, code.CreateDataErr.WithErr(err)
	}
	return data, nil
}

func (c *catalogImpl) GetOrCreateMarker(ctx context.Context, name string, analysisTypeID *int64) (*model.Marker, error) {
	data := &model.Marker{}
	err := c.DBWithContext(ctx).Where("name = ?", name).First(data).Error
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	data = &model.Marker{Name: name, AnalysisTypeID: analysisTypeID}
	if err := c.DBWithContext(ctx).Create(data).Error; err != nil {
		return nil, code.CreateDataErr.WithErr(err)
	}
	return data, nil
}

func (c *catalogImpl) GetOrCreateSpecies(ctx context.Context, areaID int64, name string, speciesCode *string) (*model.Species, error) {
	data := &model.Species{}
	err := c.DBWithContext(ctx).Where("area_id = ? AND name = ?", areaID, name).First(data).Error
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	data = &model.Species{Name: name, AreaID: areaID, Code: speciesCode}
	if err := c.DBWithContext(ctx).Create(data).Error; err != nil {
		logger.Errorf(ctx, "GetOrCreateSpecies create %q err: %+v", name, err)
		return nil, code.CreateDataErr.WithErr(err)
	}
	return data, nil
}

func (c *catalogImpl) GetOrCreateSampleType(ctx context.Context, name string) (*model.SampleType, error) {
	data := &model.SampleType{}
	err := c.DBWithContext(ctx).Where("name = ?", name).First(data).Error
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.QueryRecordErr.WithErr(err)
	}

	data = &model.SampleType{Name: name}
	if err := c.DBWithContext(ctx).Create(data).Error; err != nil {
		return nil, code.CreateDataErr.WithErr(err)
	}
	return data, nil
}

func (c *catalogImpl) AddSpeciesMarker(ctx context.Context, species *model.Species, marker *model.Marker) error {
	if err := c.DBWithContext(ctx).Model(species).Association("Markers").Append(marker); err != nil {
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (c *catalogImpl) AddSampleTypeArea(ctx context.Context, sampleType *model.SampleType, area *model.Area) error {
	if err := c.DBWithContext(ctx).Model(sampleType).Association("Areas").Append(area); err != nil {
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}
