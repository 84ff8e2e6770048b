package domain

import "time"

// RecordFieldCount is the number of tab-separated fields in a data line.
const RecordFieldCount = 54

// Field offsets within a RawRecord.
const (
	FieldGender          = 3
	FieldAge             = 4
	FieldDate            = 17
	FieldTime            = 18
	FieldVehicleDeceased = 29
	FieldVehicleKiller   = 36
	FieldAccidentReason  = 44
	FieldYearMonth       = 47
	FieldEasting         = 50
	FieldNorthing        = 51
)

// RawRecord is one data line split into its positional fields.
type RawRecord struct {
	Line   int // 1-based line number in the source file
	Fields []string
}

// Field returns the field at offset i, or "" when the record is too short.
func (r RawRecord) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Gender of the deceased.
type Gender string

const (
	GenderMan   Gender = "man"
	GenderWoman Gender = "woman"
)

// LatLon is a WGS-84 coordinate pair in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Accident is the normalized form of a RawRecord.
type Accident struct {
	Gender          Gender
	Age             *int
	DateTime        time.Time // local wall clock, zero when unknown
	VehicleDeceased Vehicle
	VehicleKiller   Vehicle
	AccidentReason  string
	UTMX            int
	UTMY            int
	Geo             LatLon
	Light           *Light // nil when DateTime is unknown
}

// HasDateTime reports whether the accident time is known.
func (a Accident) HasDateTime() bool {
	return !a.DateTime.IsZero()
}
