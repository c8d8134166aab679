package census

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Target is one row of an endpoint-list csv: the raw url plus its
// parse outcome. Rows that fail to parse are kept so the caller can
// report them instead of silently shrinking the list.
type Target struct {
	Url      string
	Endpoint Endpoint
	Err      error
}

// GroupTableType classifies a table by its group code prefix. This is
// the starter-csv heuristic; endpoints parsed from urls should use
// Endpoint.TableType, which reads the dataset path instead.
func GroupTableType(group string) TableType {
	switch {
	case strings.HasPrefix(group, "DP"):
		return TableProfile
	case strings.HasPrefix(group, "B"):
		return TableDetailed
	case strings.HasPrefix(group, "C"):
		return TableCollapsed
	case strings.HasPrefix(group, "S"):
		return TableSubject
	}
	return TableUnknown
}

// ReadTargets ingests a starter csv with a "url" column and parses
// every row into a Target.
func ReadTargets(path string) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header of %s: %w", path, err)
	}

	urlColumn := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "url") {
			urlColumn = i
			break
		}
	}
	if urlColumn < 0 {
		return nil, fmt.Errorf("csv %s has no 'url' column", path)
	}

	var targets []Target
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row of %s: %w", path, err)
		}

		rawUrl := strings.TrimSpace(record[urlColumn])
		if rawUrl == "" {
			continue
		}
		ep, err := ParseUrl(rawUrl)
		targets = append(targets, Target{
			Url:      rawUrl,
			Endpoint: ep,
			Err:      err,
		})
	}
	return targets, nil
}
