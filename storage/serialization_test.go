package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embershare/seek/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	for _, id := range []core.ID{0, 42, 18446744073709551615, core.IDFromContent("Tools")} {
		data := MarshalID(id)
		require.NotEmpty(t, data)

		decoded, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestUnmarshalID_Empty(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalItem(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	item := &core.Item{
		Id:              7,
		OwnerName:       "ada",
		Name:            "Garden hose",
		Description:     "50ft, lightly used",
		Quantity:        1,
		IsBorrow:        true,
		CategoryId:      core.IDFromContent("Tools"),
		Available:       true,
		Latitude:        40.4406,
		Longitude:       -79.9959,
		Address:         "123 Main St",
		LocationName:    "Front porch",
		Vector:          []float32{0.1, -0.2, 0.3},
		TextFingerprint: core.IDFromContent("Garden hose — Tools — 50ft, lightly used"),
		CreatedAt:       now,
		InsertedAt:      now,
		UpdatedAt:       now,
	}

	data := MarshalItem(item)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalItem(data)
	require.NoError(t, err)
	assert.Equal(t, item, decoded)
}

func TestUnmarshalItem_Truncated(t *testing.T) {
	data := MarshalItem(&core.Item{Id: 1, Name: "Ladder"})
	_, err := UnmarshalItem(data[:len(data)/2])
	assert.Error(t, err)
}

func TestMarshalUnmarshalCategory(t *testing.T) {
	category := &core.Category{Id: core.IDFromContent("Water"), Name: "Water"}

	data := MarshalCategory(category)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalCategory(data)
	require.NoError(t, err)
	assert.Equal(t, category, decoded)
}
