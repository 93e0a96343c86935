package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	model "github.com/naturlab/genlab/service/pkg/model"
)

type SampleRepo interface {
	IDOrUUIDTranslate

	CreateSamples(ctx context.Context, samples []*model.Sample) error
	GetSample(ctx context.Context, id uuid.UUID) (*model.Sample, error)
	GetSampleByID(ctx context.Context, id int64) (*model.Sample, error)
	// ListByOrder loads all samples of an extraction order with
	// species (incl. location type), location (incl. types) and
	// sample type preloaded for validation.
	ListByOrder(ctx context.Context, orderID int64) ([]*model.Sample, error)
	CountByOrder(ctx context.Context, orderID int64) (int64, error)
	// ListUnassigned returns the selected samples of the order that
	// have no genlab id yet, species preloaded.
	ListUnassigned(ctx context.Context, orderID int64, selected []int64) ([]*model.Sample, error)
	// ListIsolatable returns samples carrying a genlab id ordered by
	// (year, species name, location name) for plate allocation.
	ListIsolatable(ctx context.Context, orderID int64) ([]*model.Sample, error)
	UpdateSample(ctx context.Context, sampleID int64, data map[string]any) error
	SetGenlabID(ctx context.Context, sampleID int64, genlabID string) error
	SetIsolated(ctx context.Context, sampleIDs []int64) error

	// Cascade storage for analysis orders.
	UpsertAnalyses(ctx context.Context, rows []*model.SampleMarkerAnalysis) error
	DeleteStaleAnalyses(ctx context.Context, orderID int64, stamp uuid.UUID) (int64, error)
	ListAnalysesByOrder(ctx context.Context, orderID int64) ([]*model.SampleMarkerAnalysis, error)
	CountAnalysesByOrder(ctx context.Context, orderID int64) (int64, error)
}
