package aricbor

import "github.com/jhuapl-dtnma/ari-go/ari"

// daysSinceEpoch and revisionFromDays implement Howard Hinnant's
// days-from-civil / civil-from-days algorithm, the standard
// integer-arithmetic conversion between a Gregorian y/m/d and a day count
// relative to 1970-01-01, as required by the day-date tag (RFC 8943).
func daysSinceEpoch(y, m, d int) int64 {
	if m <= 2 {
		y--
	}
	era := y
	if y < 0 {
		era = y - 399
	}
	era /= 400
	yoe := y - era*400
	var mp int
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return int64(era)*146097 + int64(doe) - 719468
}

func revisionFromDays(days int64) ari.RevisionDate {
	z := days + 719468
	era := z
	if z < 0 {
		era = z - 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return ari.RevisionDate{Year: int16(y), Month: uint8(m), Day: uint8(d), Present: true}
}
