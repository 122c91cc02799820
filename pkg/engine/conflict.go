package engine

import (
	"voterroll/pkg/schema"
)

// FieldConflict represents a disagreement between the registry voter and the
// cancellation entry that designates it. Resolution is always "registry_wins":
// a confirmed cancellation removes the registry record whatever the entry says.
type FieldConflict struct {
	Field         string `json:"field"`
	RegistryValue string `json:"registryValue"`
	EntryValue    string `json:"entryValue"`
	Resolution    string `json:"resolution"`
}

// DetectConflicts compares the descriptive fields of a matched pair. Fields
// that are absent on either side are not compared.
func DetectConflicts(registry, entry schema.Voter) []FieldConflict {
	var conflicts []FieldConflict

	compare := func(field, a, b string) {
		if schema.PresenceOf(a) != schema.Present || schema.PresenceOf(b) != schema.Present {
			return
		}
		if schema.NormalizeValue(a) != schema.NormalizeValue(b) {
			conflicts = append(conflicts, FieldConflict{
				Field:         field,
				RegistryValue: a,
				EntryValue:    b,
				Resolution:    "registry_wins",
			})
		}
	}

	compare(schema.FieldFirstName.Name, registry.FirstName, entry.FirstName)
	compare(schema.FieldLastName.Name, registry.LastName, entry.LastName)
	compare(schema.FieldGender.Name, registry.Gender, entry.Gender)
	compare(schema.FieldBirthDate.Name, registry.BirthDate.String(), entry.BirthDate.String())

	return conflicts
}
