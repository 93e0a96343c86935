package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	model "github.com/naturlab/genlab/service/pkg/model"
)

type PlateRepo interface {
	IDOrUUIDTranslate

	// LastPlate returns the newest plate and how many positions it
	// holds; nil when no plate exists yet.
	LastPlate(ctx context.Context) (*model.ExtractionPlate, int64, error)
	CreatePlate(ctx context.Context, plate *model.ExtractionPlate) error
	CreatePosition(ctx context.Context, pos *model.ExtractPlatePosition) error
	ListPositions(ctx context.Context, plateID int64) ([]*model.ExtractPlatePosition, error)
	ListPositionsBySample(ctx context.Context, sampleID int64) ([]*model.ExtractPlatePosition, error)
}
