package census

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func serveStrings(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestFetchTable(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/data/2021/acs/acs5", serveStrings(
		`[["NAME","B01001_001E"],["Alabama",5030053],["Alaska",null]]`,
	))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	table, err := NewClient().FetchTable(ctx, srv.URL+"/data/2021/acs/acs5")
	require.NoError(t, err)

	// non-string cells are stringified at the boundary
	require.Equal(t, [][]string{
		{"NAME", "B01001_001E"},
		{"Alabama", "5030053"},
		{"Alaska", ""},
	}, table)
}

func TestFetchTableRejectsNonTabularBody(t *testing.T) {
	srv := httptest.NewServer(serveStrings(`["headers", "not-an-array"]`))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := NewClient().FetchTable(ctx, srv.URL)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestFetchJsonTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such dataset", http.StatusNotFound)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	var out any
	err := NewClient().FetchJson(ctx, srv.URL, &out)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	require.Contains(t, transportErr.Body, "no such dataset")
}

func TestFetchTidyPipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/data/2021/acs/acs5/subject", serveStrings(
		`[["NAME","S2701_C01_001E","ucgid"],
		  ["Connecticut",3605944,"0400000US09"]]`,
	))
	mux.Handle("/data/2021/acs/acs5/subject/groups/S2701", serveStrings(
		`{"variables": {
			"S2701_C01_001E": {
				"label": "Estimate!!Total",
				"concept": "HEALTH INSURANCE COVERAGE"
			}
		}}`,
	))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ep, err := ParseUrl(srv.URL + "/data/2021/acs/acs5/subject?get=group(S2701)&ucgid=0400000US09")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	tidy, err := NewClient().FetchTidy(ctx, ep)
	require.NoError(t, err)

	// the NAME cell is non-numeric, only the estimate survives
	require.Len(t, tidy, 1)
	require.Equal(t, "S2701_C01_001E", tidy[0].VariableId)
	require.Equal(t, float64(3605944), tidy[0].Value)
	require.Equal(t, "estimate total", tidy[0].VariableName)
	require.Equal(t, "health insurance coverage", tidy[0].Concept)
	require.Equal(t, ValueEstimate, tidy[0].ValueType)
	require.Equal(t, "0400000US09", tidy[0].Ucgid)
	require.Equal(t, ep.UrlNoKey(), tidy[0].FullUrl)
}

func TestFetchVariablesHtml(t *testing.T) {
	page := `<html><body><table>
		<tr><th>Name</th><th>Label</th><th>Concept</th><th>Group</th></tr>
		<tr><td>B01001_001E</td><td>Estimate!!Total:</td><td>SEX BY AGE</td><td>B01001</td></tr>
		<tr><td>B01001_001M</td><td>Margin of Error!!Total:</td><td>SEX BY AGE</td><td>B01001</td></tr>
		<tr><td>471 variables</td><td></td><td></td><td></td></tr>
	</table></body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/data/2021/acs/acs5/variables.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ep, err := ParseUrl(srv.URL + "/data/2021/acs/acs5?get=NAME&for=state:*")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	catalog, err := NewClient().FetchVariablesHtml(ctx, ep)
	require.NoError(t, err)

	require.Len(t, catalog, 2)
	require.Equal(t, "B01001_001E", catalog[0].Name)
	require.Equal(t, "Estimate!!Total:", catalog[0].Label)
	require.Equal(t, "SEX BY AGE", catalog[0].Concept)
	require.Equal(t, "B01001", catalog[0].Group)
}
