package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	model "github.com/naturlab/genlab/service/pkg/model"
)

// CatalogRepo reads and seeds the reference dictionaries. Get-or-create
// operations implement the TSV seed semantics: matching by name, never
// duplicating.
type CatalogRepo interface {
	IDOrUUIDTranslate

	ListAreas(ctx context.Context) ([]*model.Area, error)
	ListSpecies(ctx context.Context) ([]*model.Species, error)
	ListSampleTypes(ctx context.Context) ([]*model.SampleType, error)
	ListMarkers(ctx context.Context) ([]*model.Marker, error)
	ListLocations(ctx context.Context) ([]*model.Location, error)
	ListLocationTypes(ctx context.Context) ([]*model.LocationType, error)
	ListIsolationMethods(ctx context.Context) ([]*model.IsolationMethod, error)
	ListEquipmentTypes(ctx context.Context) ([]*model.EquipmentType, error)
	ListBuffers(ctx context.Context) ([]*model.Buffer, error)

	GetOrCreateArea(ctx context.Context, name string) (*model.Area, error)
	GetOrCreateAnalysisType(ctx context.Context, name string) (*model.AnalysisType, error)
	GetOrCreateMarker(ctx context.Context, name string, analysisTypeID *int64) (*model.Marker, error)
	GetOrCreateSpecies(ctx context.Context, areaID int64, name string, code *string) (*model.Species, error)
	GetOrCreateSampleType(ctx context.Context, name string) (*model.SampleType, error)

	AddSpeciesMarker(ctx context.Context, species *model.Species, marker *model.Marker) error
	AddSampleTypeArea(ctx context.Context, sampleType *model.SampleType, area *model.Area) error
}
