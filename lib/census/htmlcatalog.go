package census

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"censusops/lib/timezone"

	"github.com/PuerkitoBio/goquery"
)

// FetchVariablesHtml scrapes the human-facing variables.html catalog
// published next to the json one. Useful for the older vintages whose
// json catalog is flaky or missing. Aggregate "...variables" summary
// rows are filtered out.
func (c *Client) FetchVariablesHtml(ctx context.Context, ep Endpoint) ([]Variable, error) {
	catalogUrl := fmt.Sprintf("%s/%d/%s/variables.html", ep.BaseUrl, ep.Year, ep.Dataset)

	res, err := c.http.R().SetContext(ctx).Get(catalogUrl)
	if err != nil {
		return nil, &TransportError{Url: catalogUrl, Err: err}
	}
	if res.IsError() {
		return nil, &TransportError{
			Url:        catalogUrl,
			StatusCode: res.StatusCode(),
			Body:       res.String(),
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, &DecodeError{Url: catalogUrl, Err: err}
	}

	pulledAt := timezone.Now()
	columns := map[int]string{}
	var out []Variable

	doc.Find("table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		headerCells := row.Find("th")
		if headerCells.Length() > 0 {
			headerCells.Each(func(j int, cell *goquery.Selection) {
				columns[j] = strings.TrimSpace(cell.Text())
			})
			return
		}

		v := Variable{DatePulled: pulledAt}
		row.Find("td").Each(func(j int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			switch columns[j] {
			case "Name":
				v.Name = text
			case "Label":
				v.Label = text
			case "Concept":
				v.Concept = text
			case "Predicate Type":
				v.PredicateType = text
			case "Group":
				v.Group = text
			}
		})

		if v.Name == "" || strings.HasSuffix(v.Name, "variables") {
			return
		}
		out = append(out, v)
	})

	return out, nil
}
