package uuid

import (
	uuid "github.com/gofrs/uuid/v5"
)

type UUID = uuid.UUID

var Nil = uuid.Nil

// NewV4 returns a random UUID. gofrs only errors when the entropy
// source is broken, which is not recoverable anyway.
func NewV4() UUID {
	return uuid.Must(uuid.NewV4())
}

func FromString(s string) (UUID, error) {
	return uuid.FromString(s)
}
