// Package gid allocates genlab identifiers. Counters live in ordinary
// table rows instead of database sequences so an aborted transaction
// rolls the increment back and numbering stays dense.
package gid

import (
	// 外部依赖
	"context"
	"errors"
	"fmt"

	// 内部引用
	code "github.com/naturlab/genlab/service/pkg/common/code"
	db "github.com/naturlab/genlab/service/pkg/middleware/db"
	model "github.com/naturlab/genlab/service/pkg/model"
	repo "github.com/naturlab/genlab/service/pkg/repo"
	repoSequence "github.com/naturlab/genlab/service/pkg/repo/sequence"
)

const counterDigits = 5

// Allocator hands out successive genlab ids per (species, year) pair
// and replica suffixes per sample. All locking methods must run inside
// a transaction; the row lock serializes concurrent allocators for the
// same pair while disjoint pairs proceed in parallel.
type Allocator struct {
	sequences repo.SequenceRepo
}

func NewAllocator() *Allocator {
	return &Allocator{sequences: repoSequence.New()}
}

// SequenceID renders the counter key for a (year, species) pair,
// e.g. 2024 + "ABC" -> "G24ABC".
func SequenceID(year int, speciesCode string) string {
	return fmt.Sprintf("G%02d%s", year%100, speciesCode)
}

// SequenceFor returns the counter row for (year, species), creating it
// at zero if absent. With lock=true the row comes back write-locked for
// the rest of the enclosing transaction; callers must already be inside
// one. A concurrent create is absorbed by re-reading under the lock.
func (a *Allocator) SequenceFor(ctx context.Context, year int, species *model.Species, lock bool) (*model.GIDSequence, error) {
	if species == nil || species.Code == nil || *species.Code == "" {
		return nil, code.SpeciesCodeMissing
	}
	if lock && !db.InTx(ctx) {
		return nil, code.NotInTransaction
	}

	id := SequenceID(year, *species.Code)
	seq, err := a.sequences.GetSequence(ctx, id, lock)
	if err != nil {
		return nil, err
	}
	if seq != nil {
		return seq, nil
	}

	seq = &model.GIDSequence{
		ID:        id,
		Year:      year,
		SpeciesID: &species.ID,
	}
	err = a.sequences.CreateSequence(ctx, seq)
	if err == nil {
		if !lock {
			return seq, nil
		}
		// re-read so the fresh row is covered by the lock too
		return a.sequences.GetSequence(ctx, id, true)
	}
	if errors.Is(err, code.ConflictErr) {
		// lost the race; the winner's row is authoritative
		return a.sequences.GetSequence(ctx, id, lock)
	}
	return nil, err
}

// NextValue increments the counter and returns the rendered id,
// seq.ID plus the zero-padded five digit value. The caller must hold
// the row lock, so the call must be inside a transaction.
func (a *Allocator) NextValue(ctx context.Context, seq *model.GIDSequence) (string, error) {
	if !db.InTx(ctx) {
		return "", code.NotInTransaction
	}
	if err := a.sequences.IncrementSequence(ctx, seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%0*d", seq.ID, counterDigits, seq.LastValue), nil
}

// ReplicaSequenceFor returns the one-to-one counter anchored to a
// sample, creating it if needed. The sample must already carry a
// genlab id, which doubles as the sequence id so produced values
// extend it directly.
func (a *Allocator) ReplicaSequenceFor(ctx context.Context, sample *model.Sample, lock bool) (*model.GIDSequence, error) {
	if sample.GenlabID == nil || *sample.GenlabID == "" {
		return nil, code.ValidationErr.WithMsg("sample has no genlab id to derive replicas from")
	}
	if lock && !db.InTx(ctx) {
		return nil, code.NotInTransaction
	}

	id := *sample.GenlabID
	seq, err := a.sequences.GetSequence(ctx, id, lock)
	if err != nil {
		return nil, err
	}
	if seq != nil {
		return seq, nil
	}

	year := 0
	if sample.Year != nil {
		year = *sample.Year
	}
	seq = &model.GIDSequence{
		ID:       id,
		Year:     year,
		SampleID: &sample.ID,
	}
	err = a.sequences.CreateSequence(ctx, seq)
	if err == nil {
		if !lock {
			return seq, nil
		}
		return a.sequences.GetSequence(ctx, id, true)
	}
	if errors.Is(err, code.ConflictErr) {
		return a.sequences.GetSequence(ctx, id, lock)
	}
	return nil, err
}

// NextReplicaValue increments the replica counter and returns the
// parent id with the next letter appended: A, B, ... Z. Past Z the
// alphabet is exhausted and the call fails.
func (a *Allocator) NextReplicaValue(ctx context.Context, seq *model.GIDSequence) (string, error) {
	if !db.InTx(ctx) {
		return "", code.NotInTransaction
	}
	if err := a.sequences.IncrementSequence(ctx, seq); err != nil {
		return "", err
	}
	if seq.LastValue > 26 {
		return "", code.ReplicaExhausted
	}
	return seq.ID + string(rune('A'+seq.LastValue-1)), nil
}
