// Package domain models road accident fatality records and the derived
// illumination condition at the time of each accident.
//
// # Data Source
//
// Records come from a tab-separated export of the forensic medicine accident
// register. The first line is a header; every data line carries exactly 54
// positional fields with no names. Lines with any other field count are
// dropped by the reader before they reach this package.
//
// # Field Conventions
//
// Consumed offsets (zero-based):
//
//	 3  gender code        "1" = man, any other integer = woman
//	 4  age                integer years, may be empty
//	17  date               Persian calendar "YYYYMMDD", may be shorter or empty
//	18  time               HHMM in 24-hour notation, may be unpadded ("930")
//	29  deceased vehicle   Persian free text
//	36  killer vehicle     Persian free text
//	44  accident reason    Persian free text
//	47  year.month         Persian "YYYY.M", fallback when the date is short
//	50  easting            UTM metres as a float string
//	51  northing           UTM metres as a float string
//
// Date reconciliation:
//
//	The year and month come from the date field when it has all 8 characters,
//	otherwise from the "year.month" field. The day is always the last two
//	characters of the date field. Time is zero-padded on the left to four
//	characters: "930" -> "0930" -> 09:30.
//
// Coordinates:
//
//	UTM zone 39, latitude band S (Tehran). Values are truncated to whole
//	metres before reprojection.
//
// Vehicle text:
//
//	Free text is matched exactly against a fixed table (both Arabic and
//	Persian spellings of yeh appear in the source) and collapsed to
//	car, bike, motorcycle, pedestrian or heavy.
//
// # Illumination
//
// Solar altitude is evaluated at the accident position and time, with a
// single observer elevation for every record. Altitude buckets follow the
// standard twilight definitions with open intervals:
//
//	angle > 0          day
//	-6  < angle < 0    civil
//	-12 < angle < -6   nautical
//	-18 < angle < -12  astronomical
//	otherwise          night (including exactly 0, -6, -12 and -18)
//
// civil, nautical and astronomical are reported as twilight.
package domain
