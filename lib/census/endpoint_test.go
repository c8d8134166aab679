package census

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUrlGroupWithPseudoGeography(t *testing.T) {
	url := "https://api.census.gov/data/2023/acs/acs5?get=group(B19013H)&ucgid=pseudo(0400000US09$0600000)"

	ep, err := ParseUrl(url)
	require.NoError(t, err)

	require.Equal(t, "https://api.census.gov/data", ep.BaseUrl)
	require.Equal(t, 2023, ep.Year)
	require.Equal(t, "acs/acs5", ep.Dataset)
	require.Equal(t, []string{"group(B19013H)"}, ep.Variables)
	require.Equal(t, "ucgid:pseudo(0400000US09$0600000)", ep.Geography())
	require.Equal(t, "B19013H", ep.Group())
	require.Equal(t, TableDetailed, ep.TableType())
	require.Equal(
		t,
		"https://api.census.gov/data/2023/acs/acs5/groups/B19013H",
		ep.VariableEndpoint(),
	)
	require.Equal(
		t,
		"https://api.census.gov/data/2023/acs/acs5?get=group%28B19013H%29&ucgid=pseudo%280400000US09%240600000%29",
		ep.UrlNoKey(),
	)
}

func TestParseUrlSubjectTable(t *testing.T) {
	url := "https://api.census.gov/data/2021/acs/acs5/subject?get=group(S2701)&ucgid=0400000US09"

	ep, err := ParseUrl(url)
	require.NoError(t, err)

	require.Equal(t, "https://api.census.gov/data", ep.BaseUrl)
	require.Equal(t, 2021, ep.Year)
	require.Equal(t, "acs/acs5/subject", ep.Dataset)
	require.Equal(t, []string{"group(S2701)"}, ep.Variables)
	require.Equal(t, "ucgid:0400000US09", ep.Geography())
	require.Equal(t, TableSubject, ep.TableType())
	require.Equal(
		t,
		"https://api.census.gov/data/2021/acs/acs5/subject/groups/S2701",
		ep.VariableEndpoint(),
	)
	require.Equal(
		t,
		"https://api.census.gov/data/2021/acs/acs5/subject?get=group%28S2701%29&ucgid=0400000US09",
		ep.UrlNoKey(),
	)
}

func TestUrlRoundTripIsKeyIndependent(t *testing.T) {
	ep, err := NewEndpoint(EndpointOptions{
		Year:      2022,
		Dataset:   "acs/acs5",
		Variables: []string{"NAME", "B01001_001E", "B01001_001M"},
		Geography: "for:state:*",
		ApiKey:    "f00ba4",
	})
	require.NoError(t, err)

	require.Contains(t, ep.FullUrl(), "&key=f00ba4")
	require.NotContains(t, ep.UrlNoKey(), "key=")

	reparsed, err := ParseUrl(ep.FullUrl())
	require.NoError(t, err)
	require.Equal(t, "f00ba4", reparsed.ApiKey)
	require.Equal(t, ep.UrlNoKey(), reparsed.UrlNoKey())

	// injecting a different key must not move the stable identity
	require.Equal(t, ep.UrlNoKey(), ep.WithApiKey("0ther").UrlNoKey())
}

func TestNewEndpointValidation(t *testing.T) {
	base := EndpointOptions{
		Year:      2023,
		Dataset:   "acs/acs5",
		Variables: []string{"B01001_001E"},
		Geography: "for:state:*",
	}

	testCases := []struct {
		name     string
		mutate   func(*EndpointOptions)
		expected error
	}{
		{
			name:     "year too old",
			mutate:   func(o *EndpointOptions) { o.Year = 2003 },
			expected: ErrInvalidYear,
		},
		{
			name:     "year at the boundary",
			mutate:   func(o *EndpointOptions) { o.Year = 2004 },
			expected: ErrInvalidYear,
		},
		{
			name:     "empty dataset",
			mutate:   func(o *EndpointOptions) { o.Dataset = "///" },
			expected: ErrEmptyDataset,
		},
		{
			name:     "no variables",
			mutate:   func(o *EndpointOptions) { o.Variables = nil },
			expected: ErrNoVariables,
		},
		{
			name: "group mixed with plain codes",
			mutate: func(o *EndpointOptions) {
				o.Variables = []string{"group(S2701)", "B01001_001E"}
			},
			expected: ErrGroupNotAlone,
		},
		{
			name:     "geography without a value",
			mutate:   func(o *EndpointOptions) { o.Geography = "for" },
			expected: ErrBadGeography,
		},
		{
			name:     "unrecognized geography key",
			mutate:   func(o *EndpointOptions) { o.Geography = "zcta:90210" },
			expected: ErrBadGeography,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			opts := base
			test.mutate(&opts)
			_, err := NewEndpoint(opts)
			require.ErrorIs(t, err, test.expected)
		})
	}
}

func TestParseUrlRejectsMalformedUrls(t *testing.T) {
	badUrls := []string{
		"https://api.census.gov/2023/acs/acs5?get=NAME&for=state:*",
		"https://api.census.gov/data/acs5?get=NAME&for=state:*",
		"https://api.census.gov/data/twenty/acs/acs5?get=NAME&for=state:*",
		"https://api.census.gov/data/2023/acs/acs5?for=state:*",
		"https://api.census.gov/data/2023/acs/acs5?get=NAME",
		"https://api.census.gov/data/2023/acs/acs5?get=NAME&zcta=90210",
	}

	for _, bad := range badUrls {
		_, err := ParseUrl(bad)
		require.Error(t, err, bad)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, bad)
		require.Equal(t, bad, parseErr.Url)
	}
}

func TestTableTypeClassification(t *testing.T) {
	testCases := []struct {
		dataset   string
		variables []string
		expected  TableType
	}{
		{"acs/acs5", []string{"group(B19013H)"}, TableDetailed},
		{"acs/acs5", []string{"NAME", "B01001_001E"}, TableUnknown},
		{"acs/acs5/subject", []string{"group(S2701)"}, TableSubject},
		{"acs/acs5/profile", []string{"group(DP02)"}, TableProfile},
		{"acs/acs5/cprofile", []string{"group(CP03)"}, TableCollapsed},
		{"dec/pl", []string{"P1_001N"}, TableUnknown},
	}

	for _, test := range testCases {
		ep, err := NewEndpoint(EndpointOptions{
			Year:      2022,
			Dataset:   test.dataset,
			Variables: test.variables,
			Geography: "for:state:*",
		})
		require.NoError(t, err)
		require.Equal(t, test.expected, ep.TableType(), test.dataset)
	}
}

func TestGroup(t *testing.T) {
	testCases := []struct {
		variables []string
		expected  string
	}{
		{[]string{"group(B19013H)"}, "B19013H"},
		{[]string{"NAME", "B01001_001E"}, ""},
		{[]string{"B01001_001E"}, ""},
	}

	for _, test := range testCases {
		ep, err := NewEndpoint(EndpointOptions{
			Year:      2022,
			Dataset:   "acs/acs5",
			Variables: test.variables,
			Geography: "for:us:1",
		})
		require.NoError(t, err)
		require.Equal(t, test.expected, ep.Group())
	}
}
