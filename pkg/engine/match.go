package engine

import (
	"voterroll/pkg/schema"
)

// Key identifies a voter for ledger matching. All four parts are normalized,
// the station through StationKey so "7" and "مكتب 7" agree.
type Key struct {
	NationalID   string
	Serial       string
	Station      string
	Registration string
}

// KeyOf builds the match key of a voter seated at the given station.
func KeyOf(v schema.Voter, station string) Key {
	return Key{
		NationalID:   schema.NormalizeValue(v.NationalID),
		Serial:       schema.NormalizeValue(v.SerialNumber),
		Station:      schema.StationKey(station),
		Registration: schema.NormalizeValue(v.RegistrationNumber),
	}
}

// EntryKey builds the match key of a ledger entry from its own station name.
func EntryKey(entry schema.Voter) Key {
	return KeyOf(entry, entry.PollingStationName)
}

// Match reports whether a ledger entry designates voter v at the station
// named stationName. It is an exact comparison after normalization.
func Match(entry, v schema.Voter, stationName string) bool {
	return EntryKey(entry) == KeyOf(v, stationName)
}

// restoreKey deduplicates restorations; the registration number is left out.
type restoreKey struct {
	nationalID, serial, station string
}

func restoreKeyOf(entry schema.Voter) restoreKey {
	k := EntryKey(entry)
	return restoreKey{k.NationalID, k.Serial, k.Station}
}
