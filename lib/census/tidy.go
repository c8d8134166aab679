package census

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// values at or below this are "not applicable / suppressed" flags from
// the service, not real observations
const SuppressionSentinel = -555555555

const (
	ValueEstimate             = "estimate"
	ValueMarginOfError        = "margin_of_error"
	ValuePercentEstimate      = "percent_estimate"
	ValuePercentMarginOfError = "percent_margin_of_error"
	ValueCount                = "count"
)

var valueTypeNames = map[string]string{
	"E":  ValueEstimate,
	"M":  ValueMarginOfError,
	"P":  ValuePercentEstimate,
	"PM": ValuePercentMarginOfError,
	"N":  ValueCount,
}

// TidyRow is the final long-format output unit: one observation per
// (geography, variable, value type). The column set and order is
// wire-stable, downstream consumers depend on it.
type TidyRow struct {
	RowId        int
	Dataset      string
	Year         int
	Concept      string
	GeoId        string
	Ucgid        string
	GeoName      string
	VariableId   string
	VariableName string
	Value        float64
	ValueType    string
	FullUrl      string
	DatePulled   time.Time
}

func cleanLabel(label string) string {
	replaced := strings.NewReplacer("!", " ", ":", " ").Replace(label)
	return strings.ToLower(strings.Join(strings.Fields(replaced), " "))
}

// the value type rides in a 1-2 letter suffix on the variable code,
// e.g. B01001_001E -> E. codes outside the lookup pass through as-is.
func valueType(header string) string {
	suffix := header
	if len(suffix) > 2 {
		suffix = suffix[len(suffix)-2:]
	}
	code := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, suffix)

	if name, ok := valueTypeNames[code]; ok {
		return name
	}
	return code
}

// Tidy joins normalized response rows against the variable catalog and
// assembles the final table. Rows whose value is non-numeric or at or
// below the suppression sentinel are dropped; rows that merely lack a
// catalog match survive with an inherited variable name.
func Tidy(rows []Row, labels []Variable, ep Endpoint) []TidyRow {
	byName := make(map[string]Variable, len(labels))
	for _, v := range labels {
		byName[v.Name] = v
	}

	type staged struct {
		row        Row
		name       string
		concept    string
		hasName    bool
		hasConcept bool
	}

	table := make([]staged, len(rows))
	for i, row := range rows {
		s := staged{row: row}

		label, matched := byName[row.Header]
		if matched && label.Concept != "" {
			s.concept = strings.ToLower(label.Concept)
			s.hasConcept = true
		}

		switch {
		case row.Header == "NAME":
			s.name = "name"
			s.hasName = true
		case row.Header == "GEO_ID":
			s.name = "geoid"
			s.hasName = true
		case matched:
			s.name = cleanLabel(label.Label)
			s.hasName = true
		}
		table[i] = s
	}

	// forward fill: unmatched rows (annotation flags and the like)
	// inherit the nearest preceding label context
	lastName := ""
	lastConcept := ""
	for i := range table {
		if table[i].hasName {
			lastName = table[i].name
		} else {
			table[i].name = lastName
		}
		if table[i].hasConcept {
			lastConcept = table[i].concept
		} else {
			table[i].concept = lastConcept
		}
	}

	fullUrl := ep.UrlNoKey()

	var out []TidyRow
	for _, s := range table {
		value, err := strconv.ParseFloat(strings.TrimSpace(s.row.Value), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		if value <= SuppressionSentinel {
			continue
		}

		// the concept repeats inside most labels, drop the redundancy
		name := s.name
		if s.concept != "" {
			name = strings.ReplaceAll(name, s.concept, "")
		}
		name = strings.ReplaceAll(name, "estimates", "")
		name = strings.Join(strings.Fields(name), " ")

		out = append(out, TidyRow{
			RowId:        len(out),
			Dataset:      ep.Dataset,
			Year:         ep.Year,
			Concept:      s.concept,
			GeoId:        s.row.GeoId,
			Ucgid:        s.row.Ucgid,
			GeoName:      s.row.GeoName,
			VariableId:   s.row.Header,
			VariableName: name,
			Value:        value,
			ValueType:    valueType(s.row.Header),
			FullUrl:      fullUrl,
			DatePulled:   s.row.DatePulled,
		})
	}
	return out
}
