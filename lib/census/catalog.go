package census

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"censusops/lib/timezone"
)

// Variable is one row of the metadata catalog. The tidy transform only
// cares about Name, Label and Concept; the rest rides along for
// callers that want it.
type Variable struct {
	Name          string
	Label         string
	Concept       string
	PredicateType string
	Group         string
	DatePulled    time.Time
}

type variableMeta struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	Concept       string `json:"concept"`
	PredicateType string `json:"predicateType"`
	Group         string `json:"group"`
}

// the catalog comes back in one of two wire shapes: an object keyed by
// variable code (usually wrapped in a "variables" field) or a flat
// list of objects. both are normalized here, once, at the boundary.
func decodeCatalog(body json.RawMessage, pulledAt time.Time) ([]Variable, error) {
	var wrapped struct {
		Variables map[string]variableMeta `json:"variables"`
	}
	err := json.Unmarshal(body, &wrapped)
	if err == nil && len(wrapped.Variables) > 0 {
		return fromMapping(wrapped.Variables, pulledAt), nil
	}

	var mapping map[string]variableMeta
	err = json.Unmarshal(body, &mapping)
	if err == nil && len(mapping) > 0 {
		return fromMapping(mapping, pulledAt), nil
	}

	var list []variableMeta
	err = json.Unmarshal(body, &list)
	if err != nil {
		return nil, err
	}

	out := make([]Variable, len(list))
	for i, meta := range list {
		out[i] = newVariable(meta.Name, meta, pulledAt)
	}
	return out, nil
}

func fromMapping(mapping map[string]variableMeta, pulledAt time.Time) []Variable {
	out := make([]Variable, 0, len(mapping))
	for code, meta := range mapping {
		out = append(out, newVariable(code, meta, pulledAt))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func newVariable(code string, meta variableMeta, pulledAt time.Time) Variable {
	name := meta.Name
	if name == "" {
		name = code
	}
	return Variable{
		Name:          name,
		Label:         meta.Label,
		Concept:       meta.Concept,
		PredicateType: meta.PredicateType,
		Group:         meta.Group,
		DatePulled:    pulledAt,
	}
}

// FetchAllVariables pulls every variable the endpoint's catalog knows
// about, independent of the endpoint's own variable list.
func (c *Client) FetchAllVariables(ctx context.Context, ep Endpoint) ([]Variable, error) {
	catalogUrl := ep.VariableEndpoint()

	var body json.RawMessage
	err := c.FetchJson(ctx, catalogUrl, &body)
	if err != nil {
		return nil, err
	}

	catalog, err := decodeCatalog(body, timezone.Now())
	if err != nil {
		return nil, &DecodeError{Url: catalogUrl, Err: err}
	}
	return catalog, nil
}

// requestedCodes expands the endpoint's variable tokens into bare
// codes: group syntax parentheses become spaces, then split on spaces.
// "group(S2201)" yields ["group", "S2201"].
func requestedCodes(ep Endpoint) []string {
	var codes []string
	for _, v := range ep.Variables {
		cleaned := strings.NewReplacer("(", " ", ")", " ").Replace(v)
		codes = append(codes, strings.Fields(cleaned)...)
	}
	return codes
}

// FetchRequestedVariables is FetchAllVariables filtered down to rows
// whose name contains one of the endpoint's requested codes as a
// substring. Pure post-filter: the catalog itself is fetched whole.
func (c *Client) FetchRequestedVariables(ctx context.Context, ep Endpoint) ([]Variable, error) {
	catalog, err := c.FetchAllVariables(ctx, ep)
	if err != nil {
		return nil, err
	}
	return FilterVariables(catalog, requestedCodes(ep)), nil
}

func FilterVariables(catalog []Variable, codes []string) []Variable {
	var out []Variable
	for _, v := range catalog {
		for _, code := range codes {
			if strings.Contains(v.Name, code) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}
