package deltaset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rescue struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	AssignedRescuerID *int64  `json:"assignedRescuerId"`
	RescuerLatitude   float64 `json:"rescuerLatitude"`
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestSet_ApplyCreatesAndMerges(t *testing.T) {
	s := New()

	ok, err := s.Apply(1, 1, raw(`{"id":1,"status":"pending","createdAt":"2025-01-01T10:00:00Z"}`))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Apply(1, 2, raw(`{"id":1,"assignedRescuerId":7}`))
	require.NoError(t, err)
	require.True(t, ok)

	items, err := Decode[rescue](s)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pending", items[0].Status)
	require.NotNil(t, items[0].AssignedRescuerID)
	assert.Equal(t, int64(7), *items[0].AssignedRescuerID)
}

func TestSet_DropsStaleSequence(t *testing.T) {
	s := New()
	_, err := s.Apply(1, 3, raw(`{"id":1,"rescuerLatitude":1.5}`))
	require.NoError(t, err)

	ok, err := s.Apply(1, 2, raw(`{"id":1,"rescuerLatitude":0.5}`))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Apply(1, 3, raw(`{"id":1,"rescuerLatitude":0.5}`))
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := Decode[rescue](s)
	require.NoError(t, err)
	assert.Equal(t, 1.5, items[0].RescuerLatitude)
	assert.Equal(t, int64(3), s.Seq(1))
}

func TestSet_NullClearsField(t *testing.T) {
	s := New()
	_, err := s.Apply(1, 1, raw(`{"id":1,"assignedRescuerId":7}`))
	require.NoError(t, err)
	_, err = s.Apply(1, 2, raw(`{"assignedRescuerId":null}`))
	require.NoError(t, err)

	items, err := Decode[rescue](s)
	require.NoError(t, err)
	assert.Nil(t, items[0].AssignedRescuerID)
}

func TestSet_OrderedNewestFirst(t *testing.T) {
	s := New()
	require.NoError(t, s.Seed([]json.RawMessage{
		raw(`{"id":1,"version":1,"createdAt":"2025-01-01T10:00:00Z"}`),
		raw(`{"id":2,"version":1,"createdAt":"2025-01-01T12:00:00Z"}`),
	}))
	_, err := s.Apply(3, 1, raw(`{"id":3,"createdAt":"2025-01-01T11:00:00Z"}`))
	require.NoError(t, err)

	items, err := Decode[rescue](s)
	require.NoError(t, err)

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int64{2, 3, 1}, ids)

	// seeded version acts as the last applied sequence number
	ok, err := s.Apply(1, 1, raw(`{"status":"resolved"}`))
	require.NoError(t, err)
	assert.False(t, ok)

	s.Remove(2)
	assert.Equal(t, 2, s.Len())
}
