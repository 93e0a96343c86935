package sequence

import (
	// 外部依赖
	"context"
	"errors"

	gorm "gorm.io/gorm"
	clause "gorm.io/gorm/clause"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
)

type sequenceImpl struct {
	repo.IDOrUUIDTranslate
}

func New() repo.SequenceRepo {
	return &sequenceImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

// GetSequence returns (nil, nil) when no counter row exists yet. With
// lock set the row is read FOR UPDATE so concurrent allocators queue
// on it for the rest of the transaction.
func (s *sequenceImpl) GetSequence(ctx context.Context, id string, lock bool) (*model.GIDSequence, error) {
	db := s.DBWithContext(ctx)
	// sqlite has no row locks, its single writer serializes allocators
	// on its own.
	if lock && db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	data := &model.GIDSequence{}
	err := db.Where("id = ?", id).First(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Errorf(ctx, "GetSequence %s err: %+v", id, err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (s *sequenceImpl) CreateSequence(ctx context.Context, seq *model.GIDSequence) error {
	if err := s.DBWithContext(ctx).Create(seq).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return code.ConflictErr.WithErr(err)
		}
		logger.Errorf(ctx, "CreateSequence %s err: %+v", seq.ID, err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

// IncrementSequence bumps last_value by one and refreshes seq with the
// committed value.
func (s *sequenceImpl) IncrementSequence(ctx context.Context, seq *model.GIDSequence) error {
	res := s.DBWithContext(ctx).Model(&model.GIDSequence{}).
		Where("id = ?", seq.ID).
		UpdateColumn("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		logger.Errorf(ctx, "IncrementSequence %s err: %+v", seq.ID, res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound.WithMsg("sequence " + seq.ID + " does not exist")
	}

	if err := s.DBWithContext(ctx).Where("id = ?", seq.ID).First(seq).Error; err != nil {
		return code.QueryRecordErr.WithErr(err)
	}
	return nil
}
