package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tokopos/internal/core/id"
)

type mockBase struct {
	ID           id.ID `db:"id"`
	DeletionMark bool  `db:"deletion_mark"`
	Version      int   `db:"version"`
}

type mockCatalog struct {
	mockBase
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at"`
	Ignored   string    `db:"-"`
	Untagged  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	for _, expected := range []string{"id", "deletion_mark", "version", "code", "name", "created_at"} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Untagged")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	cat := mockCatalog{
		mockBase: mockBase{
			ID:           id.New(),
			DeletionMark: true,
			Version:      5,
		},
		Code:      "P-001",
		Name:      "Widget",
		CreatedAt: now,
		Ignored:   "skip me",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "P-001", m["code"])
	assert.Equal(t, "Widget", m["name"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_PointerInput(t *testing.T) {
	cat := &mockCatalog{Code: "P-002", Name: "Gadget"}
	m := StructToMap(cat)
	assert.Equal(t, "P-002", m["code"])
}
