package census

import (
	"log/slog"
	"strings"
	"time"
)

// what geography columns read when the response carried none
const UnknownGeography = "unknown as queried"

// Row is one (header, value) observation cell with its record's
// geography broadcast onto it. Every row of any response shape ends up
// in this form, so nothing downstream has to branch on wire shape.
type Row struct {
	Header     string
	Value      string
	GeoId      string
	Ucgid      string
	GeoName    string
	DatePulled time.Time
}

// Normalize converts a decoded response table into canonical rows.
// Three shapes are handled:
//
//  1. fewer than 2 top-level elements: a single sentinel row, never an
//     error (an empty result is valid, a transport failure is not)
//  2. [headers, values]: the two parallel lists are zipped
//  3. [headers, record1, record2, ...]: each record is zipped against
//     the shared header list
func Normalize(table [][]string, pulledAt time.Time) []Row {
	if len(table) < 2 {
		slog.Warn("api returned no data rows", "elements", len(table))
		return []Row{{
			Header:     "unknown",
			Value:      "unknown",
			GeoId:      UnknownGeography,
			Ucgid:      UnknownGeography,
			GeoName:    UnknownGeography,
			DatePulled: pulledAt,
		}}
	}

	headers := table[0]
	var out []Row
	for _, record := range table[1:] {
		out = append(out, normalizeRecord(headers, record, pulledAt)...)
	}
	return out
}

// the canonical identifier headers are requested variables, not
// geography columns; NAME and GEO_ID rows stay in the data and get
// their variable_name special-cased by Tidy
func isGeoHeader(header string) (string, bool) {
	if header == "NAME" || header == "GEO_ID" {
		return "", false
	}
	switch strings.ToLower(header) {
	case "geo_id":
		return "geo_id", true
	case "name":
		return "geo_name", true
	case "ucgid":
		return "ucgid", true
	}
	return "", false
}

func normalizeRecord(headers, record []string, pulledAt time.Time) []Row {
	geoId := UnknownGeography
	ucgid := UnknownGeography
	geoName := UnknownGeography

	n := len(headers)
	if len(record) < n {
		slog.Warn(
			"record is shorter than the header list",
			"headers", len(headers),
			"record", len(record),
		)
		n = len(record)
	} else if len(record) > n {
		slog.Warn(
			"record is longer than the header list, extra cells dropped",
			"headers", len(headers),
			"record", len(record),
		)
	}

	type cell struct {
		header string
		value  string
	}
	cells := make([]cell, 0, n)
	for i := 0; i < n; i++ {
		key, ok := isGeoHeader(headers[i])
		if !ok {
			cells = append(cells, cell{headers[i], record[i]})
			continue
		}
		switch key {
		case "geo_id":
			geoId = record[i]
		case "geo_name":
			geoName = record[i]
		case "ucgid":
			ucgid = record[i]
		}
	}

	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row{
			Header:     c.header,
			Value:      c.value,
			GeoId:      geoId,
			Ucgid:      ucgid,
			GeoName:    geoName,
			DatePulled: pulledAt,
		}
	}
	return rows
}
