package census

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultBaseUrl = "https://api.census.gov/data"

// the api serves nothing usable before this
const minSupportedYear = 2004

type TableType string

const (
	TableDetailed  TableType = "detailed"
	TableSubject   TableType = "subject"
	TableCollapsed TableType = "collapsed"
	TableProfile   TableType = "profile"
	TableUnknown   TableType = "unknown"
)

var recognizedGeoKeys = []string{"for", "in", "ucgid"}

// Endpoint describes one query against the census api. Build it with
// NewEndpoint or ParseUrl and treat it as read-only afterwards: every
// url derived from it is a pure function of its fields, so two
// endpoints with the same fields always render the same UrlNoKey.
type Endpoint struct {
	BaseUrl   string
	Year      int
	Dataset   string
	Variables []string
	GeoKey    string
	GeoValue  string
	ApiKey    string
}

type EndpointOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	Year    int
	Dataset string
	// plain variable codes, or a single "group(CODE)" request
	Variables []string
	// a "key:value" pair, e.g. "for:us:1" or "ucgid:0400000US09"
	Geography string
	// optional, the caller resolves it from config; this package
	// never reads the environment
	ApiKey string
}

func NewEndpoint(opts EndpointOptions) (Endpoint, error) {
	base := opts.BaseUrl
	if base == "" {
		base = DefaultBaseUrl
	}

	if opts.Year <= minSupportedYear {
		return Endpoint{}, fmt.Errorf("%w: got %d", ErrInvalidYear, opts.Year)
	}

	dataset := strings.Trim(opts.Dataset, "/")
	if dataset == "" {
		return Endpoint{}, ErrEmptyDataset
	}

	if len(opts.Variables) == 0 {
		return Endpoint{}, ErrNoVariables
	}
	for _, v := range opts.Variables {
		if strings.HasPrefix(v, "group(") && len(opts.Variables) > 1 {
			return Endpoint{}, fmt.Errorf("%w: got %v", ErrGroupNotAlone, opts.Variables)
		}
	}

	geoKey, geoValue, ok := strings.Cut(opts.Geography, ":")
	if !ok || geoValue == "" {
		return Endpoint{}, fmt.Errorf("%w: got %q", ErrBadGeography, opts.Geography)
	}
	recognized := false
	for _, k := range recognizedGeoKeys {
		if geoKey == k {
			recognized = true
			break
		}
	}
	if !recognized {
		return Endpoint{}, fmt.Errorf("%w: got key %q", ErrBadGeography, geoKey)
	}

	return Endpoint{
		BaseUrl:   strings.TrimSuffix(base, "/"),
		Year:      opts.Year,
		Dataset:   dataset,
		Variables: opts.Variables,
		GeoKey:    geoKey,
		GeoValue:  geoValue,
		ApiKey:    opts.ApiKey,
	}, nil
}

// returns a copy with the given api key, for injecting a configured
// default into an endpoint parsed from a key-less url
func (e Endpoint) WithApiKey(key string) Endpoint {
	e.ApiKey = key
	return e
}

func (e Endpoint) Geography() string {
	return fmt.Sprintf("%s:%s", e.GeoKey, e.GeoValue)
}

// query parameter order is fixed: get, then the geography key, then
// (FullUrl only) the api key. url.Values would sort parameters
// alphabetically which breaks that.
func (e Endpoint) queryUrl(withKey bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d/%s?get=", e.BaseUrl, e.Year, e.Dataset)

	for i, v := range e.Variables {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(url.QueryEscape(v))
	}

	fmt.Fprintf(&b, "&%s=%s", e.GeoKey, url.QueryEscape(e.GeoValue))

	if withKey && e.ApiKey != "" {
		fmt.Fprintf(&b, "&key=%s", url.QueryEscape(e.ApiKey))
	}
	return b.String()
}

// FullUrl is the queryable url, api key included when present.
func (e Endpoint) FullUrl() string {
	return e.queryUrl(true)
}

// UrlNoKey always omits the api key. It is the stable identity of the
// query, safe to log, display and use as a cache key.
func (e Endpoint) UrlNoKey() string {
	return e.queryUrl(false)
}

// Group returns the bare group code when the sole requested variable
// is a group() token, else "".
func (e Endpoint) Group() string {
	if len(e.Variables) != 1 {
		return ""
	}
	v := e.Variables[0]
	if !strings.HasPrefix(v, "group(") || !strings.HasSuffix(v, ")") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(v, "group("), ")")
}

// VariableEndpoint is the url of the companion variable-metadata
// catalog: the per-group catalog for a bare group request, else the
// flat all-variables catalog.
func (e Endpoint) VariableEndpoint() string {
	if g := e.Group(); g != "" {
		return fmt.Sprintf("%s/%d/%s/groups/%s", e.BaseUrl, e.Year, e.Dataset, g)
	}
	return fmt.Sprintf("%s/%d/%s/variables", e.BaseUrl, e.Year, e.Dataset)
}

// TableType classifies the endpoint by the last dataset path segment.
// Unrecognized segments are TableUnknown, never an error.
func (e Endpoint) TableType() TableType {
	parts := strings.Split(e.Dataset, "/")
	last := parts[len(parts)-1]

	if len(parts) >= 2 && last == parts[1] && e.Group() != "" {
		return TableDetailed
	}

	switch last {
	case "subject":
		return TableSubject
	case "cprofile":
		return TableCollapsed
	case "profile":
		return TableProfile
	}
	return TableUnknown
}
