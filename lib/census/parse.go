package census

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseUrl is the inverse of Endpoint url rendering: it reconstructs a
// validated Endpoint from an existing query url. The expected grammar
// is /data/{year}/{dataset...}?get={vars}&{for|in|ucgid}={geo}[&key=].
// Every failure comes back as a *ParseError naming the offending url.
func ParseUrl(rawUrl string) (Endpoint, error) {
	ep, err := parseUrl(rawUrl)
	if err != nil {
		return Endpoint{}, &ParseError{Url: rawUrl, Err: err}
	}
	return ep, nil
}

func parseUrl(rawUrl string) (Endpoint, error) {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return Endpoint{}, err
	}
	query, err := url.ParseQuery(parsed.RawQuery)
	if err != nil {
		return Endpoint{}, err
	}

	var segments []string
	for _, s := range strings.Split(parsed.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 3 || segments[0] != "data" {
		return Endpoint{}, errors.New("url path does not match the expected '/data/{year}/{dataset...}' structure")
	}

	year, err := strconv.Atoi(segments[1])
	if err != nil {
		return Endpoint{}, fmt.Errorf("year segment %q is not an integer", segments[1])
	}
	dataset := strings.Join(segments[2:], "/")

	get := query.Get("get")
	if get == "" {
		return Endpoint{}, errors.New("could not find the 'get' parameter carrying the variable list")
	}
	variables := strings.Split(get, ",")

	geoKey := ""
	for _, k := range recognizedGeoKeys {
		if query.Has(k) {
			geoKey = k
			break
		}
	}
	if geoKey == "" {
		return Endpoint{}, errors.New("could not find a recognized geography parameter ('for', 'in', 'ucgid')")
	}

	base := ""
	if parsed.Host != "" {
		base = fmt.Sprintf("%s://%s/data", parsed.Scheme, parsed.Host)
	}

	return NewEndpoint(EndpointOptions{
		BaseUrl:   base,
		Year:      year,
		Dataset:   dataset,
		Variables: variables,
		Geography: fmt.Sprintf("%s:%s", geoKey, query.Get(geoKey)),
		ApiKey:    query.Get("key"),
	})
}
