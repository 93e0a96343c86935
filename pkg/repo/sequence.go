package repo

import (
	// 外部依赖
	"context"

	// 内部引用
	model "github.com/naturlab/genlab/service/pkg/model"
)

// SequenceRepo stores genlab id counters as plain rows. Locked reads
// must run inside a transaction; the caller owns retry on conflicting
// creates.
type SequenceRepo interface {
	IDOrUUIDTranslate

	// GetSequence returns nil without error when the row is absent.
	// With lock=true the row is read FOR UPDATE and stays locked for
	// the rest of the enclosing transaction.
	GetSequence(ctx context.Context, id string, lock bool) (*model.GIDSequence, error)
	CreateSequence(ctx context.Context, seq *model.GIDSequence) error
	// IncrementSequence bumps last_value by one and refreshes seq.
	IncrementSequence(ctx context.Context, seq *model.GIDSequence) error
}
