package migrate

import (
	// 外部依赖
	"context"

	gorm "gorm.io/gorm"

	// 内部引用
	db "github.com/naturlab/genlab/service/pkg/middleware/db"
	model "github.com/naturlab/genlab/service/pkg/model"
	utils "github.com/naturlab/genlab/service/pkg/utils"
)

// Tables lists every persisted entity in dependency order. The unique
// constraints declared on these models are load-bearing for the order
// lifecycle engine (genlab ids, sequences, plate positions, analyses).
func Tables() []any {
	return []any{
		&model.User{},
		&model.Area{},
		&model.AnalysisType{},
		&model.Marker{},
		&model.LocationType{},
		&model.Location{},
		&model.Species{},
		&model.SampleType{},
		&model.IsolationMethod{},
		&model.EquipmentType{},
		&model.Buffer{},
		&model.GenRequest{},
		&model.Order{},
		&model.EquipmentOrder{},
		&model.EquipmentOrderQuantity{},
		&model.ExtractionOrder{},
		&model.AnalysisOrder{},
		&model.Sample{},
		&model.SampleMarkerAnalysis{},
		&model.GIDSequence{},
		&model.ExtractionPlate{},
		&model.ExtractPlatePosition{},
	}
}

func Table(_ context.Context) error {
	return utils.IfErrReturn(func() error {
		return db.DB().DBIns().AutoMigrate(Tables()...)
	})
}

// AutoMigrate runs the schema against an arbitrary handle; tests use
// it with in-memory sqlite.
func AutoMigrate(g *gorm.DB) error {
	return g.AutoMigrate(Tables()...)
}
