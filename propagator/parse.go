package propagator

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Parse decodes a text buffer of one or more NORAD two- or three-line
// element sets into Records (spec §4.1). Blank lines and lines whose first
// non-blank character is '#' are skipped; a name line (24 columns)
// preceding a "1 " line is captured as Record.Name. Lines are padded to 80
// columns if short. Parsing one record failing does not stop the scan of
// subsequent records in the buffer.
func Parse(text string) ([]*Record, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var records []*Record
	var pendingName string
	var firstErr error

	for i := 0; i < len(lines); i++ {
		line := padTo80(lines[i])
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !strings.HasPrefix(trimmed, "1 ") && !strings.HasPrefix(trimmed, "2 ") {
			pendingName = strings.TrimRight(line[:min(24, len(line))], " ")
			continue
		}
		if !strings.HasPrefix(trimmed, "1 ") {
			if firstErr == nil {
				firstErr = &ParseError{Line: 1, Reason: "expected line-1 marker"}
			}
			continue
		}
		line1 := line
		if i+1 >= len(lines) {
			if firstErr == nil {
				firstErr = &ParseError{Reason: "line 1 with no matching line 2"}
			}
			break
		}
		i++
		line2 := padTo80(lines[i])
		if !strings.HasPrefix(strings.TrimSpace(line2), "2 ") {
			if firstErr == nil {
				firstErr = &ParseError{Line: 2, Reason: "expected line-2 marker"}
			}
			pendingName = ""
			continue
		}

		rec, err := parseRecord(pendingName, line1, line2)
		pendingName = ""
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		records = append(records, rec)
	}
	return records, firstErr
}

func padTo80(s string) string {
	if len(s) >= 80 {
		return s
	}
	return s + strings.Repeat(" ", 80-len(s))
}

// field decodes a fixed column slice (1-based inclusive bounds, per spec
// §4.1), trimming surrounding space before numeric conversion.
func field(line string, from, to int) string {
	if from < 1 {
		from = 1
	}
	if to > len(line) {
		to = len(line)
	}
	if from > to {
		return ""
	}
	return line[from-1 : to]
}

func parseRecord(name, line1, line2 string) (*Record, error) {
	if ephemerisTypeField(line1) == "G" {
		return nil, &ParseError{Line: 1, Reason: `"G" internal format is unsupported`}
	}

	catalog1 := strings.TrimSpace(field(line1, 3, 7))
	catalog2 := strings.TrimSpace(field(line2, 3, 7))
	if catalog1 != catalog2 {
		return nil, &ParseError{Reason: "catalog ID mismatch between line 1 and line 2"}
	}
	catalogID, err := strconv.Atoi(catalog1)
	if err != nil {
		return nil, &ParseError{Line: 1, Reason: errors.Wrap(err, "catalog id").Error()}
	}

	classification := byte(' ')
	if c := field(line1, 8, 8); strings.TrimSpace(c) != "" {
		classification = c[0]
	}
	intlDesignator := strings.TrimSpace(field(line1, 10, 17))

	epochYY, err := strconv.Atoi(strings.TrimSpace(field(line1, 19, 20)))
	if err != nil {
		return nil, &ParseError{Line: 1, Reason: errors.Wrap(err, "epoch year").Error()}
	}
	epochDays, err := strconv.ParseFloat(strings.TrimSpace(field(line1, 21, 32)), 64)
	if err != nil {
		return nil, &ParseError{Line: 1, Reason: errors.Wrap(err, "epoch day-of-year").Error()}
	}
	year := 1900 + epochYY
	if epochYY < 57 {
		year = 2000 + epochYY
	}
	epoch := dayOfYearToTime(year, epochDays)

	firstDerivRevPerDay2, err := strconv.ParseFloat(spaceless(field(line1, 34, 43)), 64)
	if err != nil {
		return nil, &ParseError{Line: 1, Reason: errors.Wrap(err, "first derivative of mean motion").Error()}
	}
	secondDeriv, err := parseImpliedDecimal(field(line1, 45, 52))
	if err != nil {
		return nil, &ParseError{Line: 1, Reason: errors.Wrap(err, "second derivative of mean motion").Error()}
	}
	bstar, err := parseImpliedDecimal(field(line1, 54, 61))
	if err != nil {
		return nil, &ParseError{Line: 1, Reason: errors.Wrap(err, "bstar drag term").Error()}
	}
	ephemerisType := 0
	if s := strings.TrimSpace(field(line1, 63, 63)); s != "" {
		ephemerisType, _ = strconv.Atoi(s)
	}
	elsetNum, _ := strconv.Atoi(strings.TrimSpace(field(line1, 65, 68)))

	inclDeg, err := strconv.ParseFloat(spaceless(field(line2, 9, 16)), 64)
	if err != nil {
		return nil, &ParseError{Line: 2, Reason: errors.Wrap(err, "inclination").Error()}
	}
	raanDeg, err := strconv.ParseFloat(spaceless(field(line2, 18, 25)), 64)
	if err != nil {
		return nil, &ParseError{Line: 2, Reason: errors.Wrap(err, "RAAN").Error()}
	}
	eccStr := strings.TrimSpace(field(line2, 27, 33))
	ecc, err := strconv.ParseFloat("0."+eccStr, 64)
	if err != nil {
		return nil, &ParseError{Line: 2, Reason: errors.Wrap(err, "eccentricity").Error()}
	}
	argpDeg, err := strconv.ParseFloat(spaceless(field(line2, 35, 42)), 64)
	if err != nil {
		return nil, &ParseError{Line: 2, Reason: errors.Wrap(err, "argument of perigee").Error()}
	}
	maDeg, err := strconv.ParseFloat(spaceless(field(line2, 44, 51)), 64)
	if err != nil {
		return nil, &ParseError{Line: 2, Reason: errors.Wrap(err, "mean anomaly").Error()}
	}
	meanMotionRevPerDay, err := strconv.ParseFloat(spaceless(field(line2, 53, 63)), 64)
	if err != nil {
		return nil, &ParseError{Line: 2, Reason: errors.Wrap(err, "mean motion").Error()}
	}
	revAtEpoch, _ := strconv.Atoi(strings.TrimSpace(field(line2, 64, 68)))

	if ecc < 0 || ecc >= 1 {
		return nil, &ParseError{Line: 2, Reason: "eccentricity outside [0, 1)"}
	}

	r := &Record{
		CatalogID:      catalogID,
		IntlDesignator: intlDesignator,
		Name:           name,
		ElementSetNum:  elsetNum,
		Classification: classification,
		RevAtEpoch:     revAtEpoch,
		EphemerisType:  ephemerisType,
		EpochTime:      epoch,
		Inclination:    inclDeg * deg2rad,
		RAAN:           raanDeg * deg2rad,
		Eccentricity:   ecc,
		ArgPerigee:     argpDeg * deg2rad,
		MeanAnomaly:    maDeg * deg2rad,
		MeanMotion:     meanMotionRevPerDay * twoPi / minPerDay,
		FirstDeriv:     firstDerivRevPerDay2 * twoPi / (minPerDay * minPerDay),
		SecondDeriv:    secondDeriv * twoPi / (minPerDay * minPerDay * minPerDay),
		BStar:          bstar,
		SelectedModel:  ModelAuto4,
		Gravity:        WGS72Legacy,
		originalText:   strings.Join([]string{name, line1, line2}, "\n"),
	}
	r.ds50 = daysSince1950(epoch)
	return r, nil
}

func ephemerisTypeField(line1 string) string {
	return strings.TrimSpace(field(line1, 63, 63))
}

func spaceless(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// parseImpliedDecimal decodes the TLE's signed-implied-decimal form
// (`.ddddd±dd`), e.g. " 12345-3" -> 0.12345e-3, "-12345+0" -> -0.12345e0.
func parseImpliedDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	sign := ""
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}
	// s is now "ddddd±dd" or "ddddd" (all zero field).
	expSignIdx := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '+' || s[i] == '-' {
			expSignIdx = i
			break
		}
	}
	if expSignIdx < 0 {
		return strconv.ParseFloat(sign+"0."+s, 64)
	}
	mantissa := s[:expSignIdx]
	exp := s[expSignIdx:]
	return strconv.ParseFloat(sign+"0."+mantissa+"e"+exp, 64)
}

// dayOfYearToTime converts a (year, fractional day-of-year) pair to an
// absolute UTC time using the proleptic Gregorian calendar (spec §4.1).
func dayOfYearToTime(year int, dayOfYear float64) time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offsetDays := dayOfYear - 1.0
	seconds := offsetDays * secPerDay
	return start.Add(time.Duration(seconds * float64(time.Second)))
}
