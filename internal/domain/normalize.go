package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidGender   = errors.New("invalid gender code")
	ErrInvalidAge      = errors.New("invalid age")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidUTMValue = errors.New("invalid utm value")
)

// ParseRawRecord normalizes the categorical, numeric and temporal fields of a
// raw record. Coordinates are truncated to integers but not yet reprojected,
// and light is left unset; see EnrichWithCoordinates and EnrichWithLight.
func ParseRawRecord(rec RawRecord, cal CalendarConverter) (Accident, error) {
	gender, err := parseGender(rec.Field(FieldGender))
	if err != nil {
		return Accident{}, fmt.Errorf("parse raw record line %d: %w", rec.Line, err)
	}

	age, err := parseAge(rec.Field(FieldAge))
	if err != nil {
		return Accident{}, fmt.Errorf("parse raw record line %d: %w", rec.Line, err)
	}

	dt, err := parseDateTime(rec.Field(FieldDate), rec.Field(FieldTime), rec.Field(FieldYearMonth), cal)
	if err != nil {
		return Accident{}, fmt.Errorf("parse raw record line %d: %w", rec.Line, err)
	}

	x, err := parseUTM(rec.Field(FieldEasting))
	if err != nil {
		return Accident{}, fmt.Errorf("parse raw record line %d: easting: %w", rec.Line, err)
	}
	y, err := parseUTM(rec.Field(FieldNorthing))
	if err != nil {
		return Accident{}, fmt.Errorf("parse raw record line %d: northing: %w", rec.Line, err)
	}

	return Accident{
		Gender:          gender,
		Age:             age,
		DateTime:        dt,
		VehicleDeceased: SimplifyVehicle(ClassifyVehicle(rec.Field(FieldVehicleDeceased))),
		VehicleKiller:   SimplifyVehicle(ClassifyVehicle(rec.Field(FieldVehicleKiller))),
		AccidentReason:  strings.TrimSpace(rec.Field(FieldAccidentReason)),
		UTMX:            x,
		UTMY:            y,
	}, nil
}

// parseGender maps code 1 to man and any other integer to woman.
func parseGender(s string) (Gender, error) {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidGender, s)
	}
	if code == 1 {
		return GenderMan, nil
	}
	return GenderWoman, nil
}

// parseAge returns nil for an empty field.
func parseAge(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidAge, s)
	}
	return &age, nil
}

// parseDateTime reconciles the date, time and year.month fields into a
// timestamp. It returns the zero time when either date or time is empty.
func parseDateTime(date, hhmm, yearMonth string, cal CalendarConverter) (time.Time, error) {
	date = strings.TrimSpace(date)
	hhmm = strings.TrimSpace(hhmm)
	if date == "" || hhmm == "" {
		return time.Time{}, nil
	}

	year, month, err := parseYearMonth(date, yearMonth)
	if err != nil {
		return time.Time{}, err
	}

	day, err := strconv.Atoi(lastN(date, 2))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day in %q", ErrInvalidDate, date)
	}

	hour, minute, err := parseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}

	t, err := cal.ConvertCalendar(year, month, day, hour, minute)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	return t, nil
}

// parseYearMonth takes year and month from a full YYYYMMDD date, falling back
// to the "year.month" field for shorter dates.
func parseYearMonth(date, yearMonth string) (int, int, error) {
	var ys, ms string
	if len(date) == 8 {
		ys, ms = date[:4], date[4:6]
	} else {
		var found bool
		ys, ms, found = strings.Cut(strings.TrimSpace(yearMonth), ".")
		if !found {
			return 0, 0, fmt.Errorf("%w: year.month %q", ErrInvalidDate, yearMonth)
		}
	}

	year, errY := strconv.Atoi(ys)
	month, errM := strconv.Atoi(ms)
	if errY != nil || errM != nil {
		return 0, 0, fmt.Errorf("%w: year/month %q/%q", ErrInvalidDate, ys, ms)
	}
	return year, month, nil
}

// parseClock splits an HHMM string, left-padding it to four digits first
// ("930" -> 09:30, "0" -> 00:00).
func parseClock(hhmm string) (int, int, error) {
	if len(hhmm) < 4 {
		hhmm = strings.Repeat("0", 4-len(hhmm)) + hhmm
	}
	hour, errH := strconv.Atoi(hhmm[:2])
	minute, errM := strconv.Atoi(hhmm[2:])
	if errH != nil || errM != nil {
		return 0, 0, fmt.Errorf("%w: time %q", ErrInvalidDate, hhmm)
	}
	return hour, minute, nil
}

// parseUTM parses a float string and truncates it toward zero.
func parseUTM(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w %q", ErrInvalidUTMValue, s)
	}
	return int(v), nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
