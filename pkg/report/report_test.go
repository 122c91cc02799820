package report

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voterroll/pkg/engine"
	"voterroll/pkg/schema"
)

func voterAt(region, commune, district, station, serial, gender string) schema.Record {
	st := schema.StandardizeStationName(station)
	return schema.Record{
		Voter: schema.Voter{
			FirstName:          "v" + serial,
			Gender:             gender,
			NationalID:         "id" + serial,
			SerialNumber:       serial,
			RegistrationNumber: schema.NotAvailable,
			PollingStationName: st,
		},
		Placement: schema.Placement{Region: region, Commune: commune, District: district, Station: st},
	}
}

func sampleHierarchy() engine.Hierarchy {
	return engine.Aggregate([]schema.Record{
		voterAt("R", "C", "10", "1", "3", schema.MaleLabel),
		voterAt("R", "C", "2", "2", "20", schema.FemaleLabel),
		voterAt("R", "C", "2", "3", "4", schema.MaleLabel),
		voterAt("R", "C", "10", "1", "1", "x"),
		voterAt("R", "C", "3", "4", "5", schema.FemaleLabel),
		voterAt("R2", "C", "2", "5", "1", schema.MaleLabel),
		voterAt("R", "Other", "1", "1", "1", schema.MaleLabel),
	})
}

func TestLedgerView(t *testing.T) {
	st := engine.State{
		Hierarchy: sampleHierarchy(),
		Pending:   []schema.Voter{{NationalID: "id3", SerialNumber: "3", RegistrationNumber: schema.NotAvailable, PollingStationName: "مكتب 1"}},
		Confirmed: []engine.Confirmation{{Voter: schema.Voter{NationalID: "c1"}}, {Voter: schema.Voter{NationalID: "c2"}, Orphan: true}},
	}

	view := LedgerView(st)
	assert.Equal(t, 1, view.TotalPending)
	assert.Equal(t, 2, view.TotalConfirmed)
	assert.Equal(t, 1, view.Reconciliation.Matched)

	require.Len(t, view.Entries, 3)
	assert.Equal(t, StatusPending, view.Entries[0].Status)
	assert.Equal(t, "معلق", view.Entries[0].StatusLabel)
	assert.Equal(t, StatusConfirmed, view.Entries[1].Status)
	assert.Equal(t, "مشطوب", view.Entries[2].StatusLabel)
	assert.False(t, view.Entries[1].Orphan)
	assert.True(t, view.Entries[2].Orphan)

	data, err := json.Marshal(view.Entries[0])
	require.NoError(t, err)
	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "pending", flat["status"])
	assert.Equal(t, "id3", flat["nationalId"])
}

func TestLedgerViewEmpty(t *testing.T) {
	view := LedgerView(engine.State{})
	assert.NotNil(t, view.Entries)
	assert.Empty(t, view.Entries)
}

func TestDistrictGender(t *testing.T) {
	h := sampleHierarchy()

	report := DistrictGender(h, "R", "C")
	require.Len(t, report.Districts, 3)
	assert.Equal(t, "10", report.Districts[0].District)
	assert.Equal(t, GenderCounts{Male: 1, Unknown: 1, Total: 2}, report.Districts[0].GenderCounts)
	assert.Equal(t, GenderCounts{Male: 1, Female: 1, Total: 2}, report.Districts[1].GenderCounts)
	assert.Equal(t, GenderCounts{Male: 2, Female: 2, Unknown: 1, Total: 5}, report.Totals)

	all := DistrictGender(h, "", "C")
	assert.Equal(t, 6, all.Totals.Total)
	require.Len(t, all.Districts, 3)
	assert.Equal(t, 3, all.Districts[1].Total)

	assert.Empty(t, DistrictGender(h, "", "missing").Districts)
}

func TestAgeDistribution(t *testing.T) {
	now := time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC)
	born := func(y, m, d int) schema.Voter {
		return schema.Voter{BirthDate: schema.ValidDate(time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC))}
	}

	voters := []schema.Voter{
		born(2007, 5, 19), // 18 today
		born(2007, 5, 20), // 17
		born(1999, 5, 20), // 25
		born(1999, 5, 19), // 26
		born(1975, 1, 1),  // 50
		born(1960, 1, 1),  // 65
		born(1959, 5, 19), // 66
		{BirthDate: schema.BirthDate{Status: schema.DateInvalid}},
		{},
	}

	got := AgeDistribution(voters, now)
	assert.Equal(t, []AgeGroupCount{
		{Group: Age18to25, Count: 2},
		{Group: Age26to35, Count: 1},
		{Group: Age36to50, Count: 1},
		{Group: Age51to65, Count: 1},
		{Group: AgeOver65, Count: 1},
	}, got)
}

func TestDistrictRollup(t *testing.T) {
	h := sampleHierarchy()

	listings, err := DistrictRollup(h, "C", "")
	require.NoError(t, err)

	var names []string
	for _, l := range listings {
		names = append(names, l.District)
	}
	assert.Equal(t, []string{"2", "2", "3", "10"}, names)

	assert.Equal(t, 2, listings[0].Count)
	assert.Equal(t, "اثنان", listings[0].CountWords)
	assert.Equal(t, "4", listings[0].Voters[0].SerialNumber)
	assert.Equal(t, "20", listings[0].Voters[1].SerialNumber)
	assert.Equal(t, "1", listings[3].Voters[0].SerialNumber)
}

func TestDistrictRollupStationFilter(t *testing.T) {
	listings, err := DistrictRollup(sampleHierarchy(), "C", "3")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "2", listings[0].District)
	assert.Equal(t, "واحد", listings[0].CountWords)
}

func TestDistrictRollupNoVoters(t *testing.T) {
	_, err := DistrictRollup(sampleHierarchy(), "missing", "")
	require.ErrorIs(t, err, ErrNoVoters)

	_, err = DistrictRollup(sampleHierarchy(), "C", "99")
	require.ErrorIs(t, err, ErrNoVoters)
}

func TestArabicWords(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, "صفر"},
		{1, "واحد"},
		{10, "عشرة"},
		{12, "اثنا عشر"},
		{20, "عشرون"},
		{25, "عشرون وخمسة"},
		{99, "تسعون وتسعة"},
		{100, "مائة"},
		{115, "مائة وخمسة عشر"},
		{342, "ثلاثمائة وأربعون واثنان"},
		{1000, "ألف"},
		{2005, "ألفان وخمسة"},
		{12000, "اثنا عشر ألف"},
		{-3, "ناقص ثلاثة"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArabicWords(tt.n))
		})
	}
}

func TestArabicWordsExtremes(t *testing.T) {
	maxWords := ArabicWords(math.MaxInt)
	require.True(t, strings.HasSuffix(maxWords, "سبعة"), maxWords)
	assert.Equal(t, "ناقص "+maxWords, ArabicWords(-math.MaxInt))

	// the smallest int is one more in magnitude: ...807 becomes ...808
	expected := "ناقص " + strings.TrimSuffix(maxWords, "سبعة") + "ثمانية"
	assert.Equal(t, expected, ArabicWords(math.MinInt))
}
