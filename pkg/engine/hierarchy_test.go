package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voterroll/pkg/schema"
)

func TestAggregateStructure(t *testing.T) {
	h := Aggregate(sampleRecords())

	require.Len(t, h.Regions, 2)
	assert.Equal(t, "R1", h.Regions[0].Name)
	assert.Equal(t, "R2", h.Regions[1].Name)

	r1 := h.Regions[0]
	require.Len(t, r1.Communes, 1)
	districts := r1.Communes[0].Districts
	require.Len(t, districts, 2)
	assert.Equal(t, "D1", districts[0].Name)
	assert.Equal(t, "D2", districts[1].Name)

	require.Len(t, districts[0].Stations, 2)
	assert.Equal(t, "مكتب 7", districts[0].Stations[0].Name)
	assert.Equal(t, "مكتب 8", districts[0].Stations[1].Name)
	assert.Equal(t, "addr-مكتب 7", districts[0].Stations[0].Address)
	assert.Equal(t, "loc-مكتب 7", districts[0].Stations[0].Location)

	assert.Equal(t, HierarchyStats{Regions: 2, Communes: 2, Districts: 3, Stations: 4, Voters: 7}, h.Stats())
}

func TestAggregateConservesVoters(t *testing.T) {
	records := sampleRecords()
	h := Aggregate(records)
	assert.Equal(t, len(records), h.VoterCount())

	assert.Equal(t, 0, Aggregate(nil).VoterCount())
}

func TestAggregateSortsBySerial(t *testing.T) {
	h := Aggregate(sampleRecords())

	s := findStation(h, "R1", "C1", "D1", "مكتب 7")
	require.NotNil(t, s)
	assert.Equal(t, []string{"2", "007", "10"}, serials(s))

	s = findStation(h, "R2", "C2", "D1", "مكتب 12")
	require.NotNil(t, s)
	assert.Equal(t, []string{"", "3"}, serials(s))

	h.Walk(func(_ schema.Placement, s *Station) bool {
		for i := 1; i < len(s.Voters); i++ {
			assert.LessOrEqual(t, CompareSerials(s.Voters[i-1].SerialNumber, s.Voters[i].SerialNumber), 0)
		}
		return true
	})
}

func TestAggregateStableForEqualSerials(t *testing.T) {
	records := []schema.Record{
		record("R", "C", "D", "1", "abc", "first", "1"),
		record("R", "C", "D", "1", "5", "mid", "2"),
		record("R", "C", "D", "1", "", "second", "3"),
		record("R", "C", "D", "1", "0", "third", "4"),
	}
	h := Aggregate(records)

	s := findStation(h, "R", "C", "D", "مكتب 1")
	require.NotNil(t, s)
	var order []string
	for _, v := range s.Voters {
		order = append(order, v.NationalID)
	}
	assert.Equal(t, []string{"first", "second", "third", "mid"}, order)
}

func TestAggregateUnknownBucket(t *testing.T) {
	records := []schema.Record{
		record(schema.Unknown, schema.Unknown, schema.Unknown, "", "1", "x", "1"),
		record(schema.Unknown, schema.Unknown, schema.Unknown, "", "2", "y", "2"),
	}
	h := Aggregate(records)

	require.Len(t, h.Regions, 1)
	s := findStation(h, schema.Unknown, schema.Unknown, schema.Unknown, schema.Unknown)
	require.NotNil(t, s)
	assert.Len(t, s.Voters, 2)
}

func TestCompareSerials(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"007", "10", -1},
		{"", "007", -1},
		{"10", "9", 1},
		{"007", "7", 0},
		{"abc", "0", 0},
		{"abc", "", 0},
		{"12a", "1", -1},
		{"99999999999999999999999", "100000000000000000000000", -1},
		{"١٢", "12", 0},
		{"٠٠٧", "10", -1},
		{"٩", "10", -1},
		{"۱۵", "9", 1},
		{"٣a", "1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareSerials(tt.a, tt.b))
			assert.Equal(t, -tt.expected, CompareSerials(tt.b, tt.a))
		})
	}
}

func TestWalkStopsEarly(t *testing.T) {
	h := Aggregate(sampleRecords())

	visited := 0
	h.Walk(func(_ schema.Placement, _ *Station) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}
