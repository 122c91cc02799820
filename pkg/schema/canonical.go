package schema

import (
	"encoding/json"
	"strconv"
	"time"
)

// Sentinel values stored in place of missing or malformed source data. They are
// kept as strings in serialized output so existing consumers see the same categories.
const (
	NotAvailable = "غير متوفر"
	Unknown      = "غير معروف"
	Invalid      = "غير صالح"
)

// Voter is one registrant as read from a registry or cancellation spreadsheet.
type Voter struct {
	FirstName              string    `json:"firstName"`
	LastName               string    `json:"lastName"`
	Gender                 string    `json:"gender"`
	BirthDate              BirthDate `json:"birthDate"`
	NationalID             string    `json:"nationalId"`
	SerialNumber           string    `json:"serialNumber"`
	RegistrationNumber     string    `json:"registrationNumber"`
	Address                string    `json:"address"`
	PollingStationAddress  string    `json:"pollingStationAddress"`
	PollingStationLocation string    `json:"pollingStationLocation"`
	PollingStationName     string    `json:"pollingStationName"`
}

// GenderCode returns the normalized gender of the voter.
func (v Voter) GenderCode() Gender {
	return GenderOf(v.Gender)
}

// FullName joins first and last name the way listings print them.
func (v Voter) FullName() string {
	return v.FirstName + " " + v.LastName
}

// Placement carries the administrative path of a voter. It travels next to the
// Voter rather than inside it so the Voter schema stays flat.
type Placement struct {
	Region   string `json:"region"`
	Commune  string `json:"commune"`
	District string `json:"district"`
	Station  string `json:"station"`
}

// Record is one built spreadsheet row.
type Record struct {
	Row       int       `json:"row"`
	Voter     Voter     `json:"voter"`
	Placement Placement `json:"placement"`
}

// DateStatus tells a parsed birth date apart from the two failure categories.
// The zero value is DateMissing.
type DateStatus int

const (
	DateMissing DateStatus = iota
	DateValid
	DateInvalid
)

// BirthDate is a calendar date or one of the Missing/Invalid states.
// It serializes as a single string: YYYY-MM-DD or the matching sentinel.
type BirthDate struct {
	Status DateStatus
	Date   time.Time
}

// ValidDate wraps t as a valid birth date, dropping the time of day.
func ValidDate(t time.Time) BirthDate {
	y, m, d := t.Date()
	return BirthDate{Status: DateValid, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (b BirthDate) IsValid() bool { return b.Status == DateValid }

func (b BirthDate) String() string {
	switch b.Status {
	case DateValid:
		return b.Date.Format(isoDate)
	case DateInvalid:
		return Invalid
	default:
		return NotAvailable
	}
}

func (b BirthDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BirthDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "", NotAvailable:
		*b = BirthDate{Status: DateMissing}
	case Invalid:
		*b = BirthDate{Status: DateInvalid}
	default:
		t, err := time.Parse(isoDate, s)
		if err != nil {
			*b = BirthDate{Status: DateInvalid}
			return nil
		}
		*b = ValidDate(t)
	}
	return nil
}

// Presence classifies a field value against the sentinel strings.
type Presence int

const (
	Present Presence = iota
	Absent
	Unassigned
	Malformed
)

// PresenceOf reports which category a stored field value falls into.
func PresenceOf(value string) Presence {
	switch value {
	case "", NotAvailable:
		return Absent
	case Unknown:
		return Unassigned
	case Invalid:
		return Malformed
	default:
		return Present
	}
}

// CellKind discriminates the Cell union.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is a spreadsheet cell value as delivered by the reader.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }

// IsBlank reports whether the cell carries no visible content.
func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && isBlank(c.Text))
}

// String renders the cell the way a spreadsheet would display it as text.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format(isoDate)
	default:
		return ""
	}
}

// Row maps raw header text to the cell found under it.
type Row map[string]Cell

// Sheet is the first worksheet of an uploaded file.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
	// RowNumbers holds the spreadsheet row of each entry of Rows. Sheets
	// built without it number their rows consecutively after the header.
	RowNumbers []int
	Date1904   bool
	Warnings   []Warning
}

// AppendRow adds a data row read from spreadsheet row number.
func (s *Sheet) AppendRow(row Row, number int) {
	s.Rows = append(s.Rows, row)
	s.RowNumbers = append(s.RowNumbers, number)
}

// RowNumber returns the spreadsheet row of Rows[i].
func (s *Sheet) RowNumber(i int) int {
	if i < len(s.RowNumbers) {
		return s.RowNumbers[i]
	}
	return i + 2
}

const isoDate = "2006-01-02"
