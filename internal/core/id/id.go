// Package id generates time-ordered UUIDv7 identifiers. The embedded
// timestamp keeps index inserts roughly append-only in Postgres.
package id

import "github.com/google/uuid"

type ID = uuid.UUID

func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to v4.
		return uuid.New()
	}
	return v7
}

func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse is for fixtures and tests; it panics on malformed input.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

func Nil() ID {
	return uuid.Nil
}

func IsNil(id ID) bool {
	return id == uuid.Nil
}
