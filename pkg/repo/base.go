package repo

import (
	// 外部依赖
	"context"

	gorm "gorm.io/gorm"

	// 内部引用
	uuid "github.com/naturlab/genlab/service/pkg/common/uuid"
	db "github.com/naturlab/genlab/service/pkg/middleware/db"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
)

// IDOrUUIDTranslate is the base capability every store embeds:
// transaction control plus translation between external uuids and
// internal integer keys.
type IDOrUUIDTranslate interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
	DBWithContext(ctx context.Context) *gorm.DB
	UUID2ID(ctx context.Context, m model.BaseDBModel, uuids ...uuid.UUID) map[uuid.UUID]int64
	ID2UUID(ctx context.Context, m model.BaseDBModel, ids ...int64) map[int64]uuid.UUID
}

type baseDB struct{}

func NewBaseDB() IDOrUUIDTranslate {
	return &baseDB{}
}

func (b *baseDB) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.DB().ExecTx(ctx, fn)
}

func (b *baseDB) DBWithContext(ctx context.Context) *gorm.DB {
	return db.DB().DBWithContext(ctx)
}

type idUUIDRow struct {
	ID   int64     `gorm:"column:id"`
	UUID uuid.UUID `gorm:"column:uuid"`
}

func (b *baseDB) UUID2ID(ctx context.Context, m model.BaseDBModel, uuids ...uuid.UUID) map[uuid.UUID]int64 {
	result := make(map[uuid.UUID]int64, len(uuids))
	if len(uuids) == 0 {
		return result
	}

	rows := make([]idUUIDRow, 0, len(uuids))
	if err := b.DBWithContext(ctx).Model(m).
		Select("id", "uuid").
		Where("uuid IN ?", uuids).
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "UUID2ID query err: %+v", err)
		return result
	}

	for _, row := range rows {
		result[row.UUID] = row.ID
	}
	return result
}

func (b *baseDB) ID2UUID(ctx context.Context, m model.BaseDBModel, ids ...int64) map[int64]uuid.UUID {
	result := make(map[int64]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return result
	}

	rows := make([]idUUIDRow, 0, len(ids))
	if err := b.DBWithContext(ctx).Model(m).
		Select("id", "uuid").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "ID2UUID query err: %+v", err)
		return result
	}

	for _, row := range rows {
		result[row.ID] = row.UUID
	}
	return result
}
