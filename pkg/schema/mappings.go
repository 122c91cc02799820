package schema

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Field is one semantic column of the registry export.
type Field struct {
	Name  string
	Label string
}

// Key is the normalized label used as the ColumnMap key.
func (f Field) Key() string {
	return NormalizeColumnName(f.Label)
}

var (
	FieldFirstName          = Field{Name: "firstName", Label: "الإسم الشخصي للناخب"}
	FieldLastName           = Field{Name: "lastName", Label: "الإسم العائلي للناخب"}
	FieldGender             = Field{Name: "gender", Label: "الجنس"}
	FieldCommune            = Field{Name: "commune", Label: "الجماعة"}
	FieldDistrict           = Field{Name: "district", Label: "الدائرة الإنتخابية"}
	FieldStationName        = Field{Name: "pollingStationName", Label: "مكتب التصويت"}
	FieldStationAddress     = Field{Name: "pollingStationAddress", Label: "عنوان مكتب التصويت"}
	FieldStationLocation    = Field{Name: "pollingStationLocation", Label: "مكان مكتب التصويت"}
	FieldRegion             = Field{Name: "region", Label: "العمالة أو الإقليم"}
	FieldBirthDate          = Field{Name: "birthDate", Label: "تاريخ الازدياد"}
	FieldNationalID         = Field{Name: "nationalId", Label: "بطاقة التعريف"}
	FieldSerialNumber       = Field{Name: "serialNumber", Label: "الرقم الترتيبي"}
	FieldAddress            = Field{Name: "address", Label: "العنوان بدقة"}
	FieldRegistrationNumber = Field{Name: "registrationNumber", Label: "رقم التسجيل"}
)

// ExpectedColumns is the fixed, ordered list of semantic columns. Order matters:
// when a header is equally close to two labels the earlier label wins.
var ExpectedColumns = []Field{
	FieldFirstName,
	FieldLastName,
	FieldGender,
	FieldCommune,
	FieldDistrict,
	FieldStationName,
	FieldStationAddress,
	FieldStationLocation,
	FieldRegion,
	FieldBirthDate,
	FieldNationalID,
	FieldSerialNumber,
	FieldAddress,
	FieldRegistrationNumber,
}

// CancellationKeyColumns must be present in a cancellation upload.
var CancellationKeyColumns = []Field{FieldNationalID, FieldSerialNumber, FieldStationName}

// ColumnMap maps a normalized expected label to the raw header assigned to it.
type ColumnMap map[string]string

// Header returns the raw header mapped onto f.
func (m ColumnMap) Header(f Field) (string, bool) {
	h, ok := m[f.Key()]
	return h, ok
}

// Missing returns the labels of fields that have no header assigned.
func (m ColumnMap) Missing(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if _, ok := m[f.Key()]; !ok {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

type mapConfig struct {
	minSimilarity float64
	fields        []Field
}

// MapOption tunes MapColumns.
type MapOption func(*mapConfig)

// WithMinSimilarity drops headers whose best score is below threshold. The
// default of 0 always assigns the nearest label, however poor the match.
func WithMinSimilarity(threshold float64) MapOption {
	return func(c *mapConfig) {
		c.minSimilarity = threshold
	}
}

// WithFields replaces the expected column list.
func WithFields(fields []Field) MapOption {
	return func(c *mapConfig) {
		c.fields = fields
	}
}

// MapColumns assigns every raw header to its most similar expected label using
// Sorensen-Dice bigram similarity on normalized text. When two headers land on
// the same label the later header wins.
func MapColumns(headers []string, opts ...MapOption) (ColumnMap, error) {
	if len(headers) == 0 {
		return nil, &EmptyInputError{Reason: "no header row"}
	}

	cfg := mapConfig{fields: ExpectedColumns}
	for _, opt := range opts {
		opt(&cfg)
	}

	keys := make([]string, len(cfg.fields))
	for i, f := range cfg.fields {
		keys[i] = f.Key()
	}

	metric := metrics.NewSorensenDice()
	metric.NgramSize = 2
	metric.CaseSensitive = false

	result := make(ColumnMap, len(cfg.fields))
	for _, header := range headers {
		normalized := NormalizeColumnName(header)
		if normalized == "" {
			continue
		}

		best, bestScore := -1, -1.0
		for i, key := range keys {
			score := strutil.Similarity(normalized, key, metric)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 || bestScore < cfg.minSimilarity {
			continue
		}
		result[keys[best]] = header
	}

	return result, nil
}
