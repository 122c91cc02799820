package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nationalIDs(t *testing.T, h Hierarchy, p Path) []string {
	t.Helper()
	var ids []string
	for _, v := range Filter(h, p) {
		ids = append(ids, v.NationalID)
	}
	return ids
}

func TestFilter(t *testing.T) {
	h := Aggregate(sampleRecords())

	tests := []struct {
		name     string
		path     Path
		expected []string
	}{
		{name: "everything", path: Path{}, expected: []string{"a2", "a5", "a1", "a3", "a4", "b2", "b1"}},
		{name: "region", path: Path{Region: "R2"}, expected: []string{"b2", "b1"}},
		{name: "district", path: Path{Region: "R1", Commune: "C1", District: "D2"}, expected: []string{"a4"}},
		{name: "station by number", path: Path{Station: "7"}, expected: []string{"a2", "a5", "a1"}},
		{name: "station by name", path: Path{District: "D1", Station: "مكتب 12"}, expected: []string{"b2", "b1"}},
		{name: "no match", path: Path{Region: "nope"}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nationalIDs(t, h, tt.path))
		})
	}
}

func TestFilterReturnsEmptySlice(t *testing.T) {
	voters := Filter(Hierarchy{}, Path{})
	assert.NotNil(t, voters)
	assert.Empty(t, voters)
}

func TestNames(t *testing.T) {
	h := Aggregate(sampleRecords())

	assert.Equal(t, []string{"R1", "R2"}, Names(h, Path{}, LevelRegion))
	assert.Equal(t, []string{"C1"}, Names(h, Path{Region: "R1"}, LevelCommune))
	assert.Equal(t, []string{"D1", "D2"}, Names(h, Path{}, LevelDistrict))
	assert.Equal(t, []string{"مكتب 7", "مكتب 8"}, Names(h, Path{Region: "R1", District: "D1"}, LevelStation))
	assert.Equal(t, []string{"مكتب 7", "مكتب 8", "مكتب 9", "مكتب 12"}, Names(h, Path{}, LevelStation))
	assert.Empty(t, Names(h, Path{Region: "nope"}, LevelCommune))
}
