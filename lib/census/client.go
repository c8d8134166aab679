package census

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"censusops/lib/telemetry"
	"censusops/lib/timezone"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("census")

type Client struct {
	http *resty.Client
}

func NewClient() *Client {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "census/http")
	return &Client{http: client}
}

// FetchJson GETs a url and decodes the body into out. Non-2xx is a
// *TransportError carrying the response body, an undecodable body is a
// *DecodeError. Neither is retried here; the caller owns that policy.
func (c *Client) FetchJson(ctx context.Context, rawUrl string, out any) error {
	res, err := c.http.R().SetContext(ctx).Get(rawUrl)
	if err != nil {
		return &TransportError{Url: rawUrl, Err: err}
	}
	if res.IsError() {
		return &TransportError{
			Url:        rawUrl,
			StatusCode: res.StatusCode(),
			Body:       res.String(),
		}
	}

	err = json.Unmarshal(res.Body(), out)
	if err != nil {
		return &DecodeError{Url: rawUrl, Err: err}
	}
	return nil
}

// FetchTable fetches a data url and decodes the array-of-arrays body
// into a string table, stringifying the occasional non-string cell
// (nulls become "", numbers keep their literal form). Shape sniffing
// happens here at the boundary and nowhere deeper.
func (c *Client) FetchTable(ctx context.Context, rawUrl string) ([][]string, error) {
	var body []json.RawMessage
	err := c.FetchJson(ctx, rawUrl, &body)
	if err != nil {
		return nil, err
	}

	table := make([][]string, len(body))
	for i, element := range body {
		var cells []any
		err := json.Unmarshal(element, &cells)
		if err != nil {
			return nil, &DecodeError{
				Url: rawUrl,
				Err: fmt.Errorf("element %d is not an array: %w", i, err),
			}
		}
		row := make([]string, len(cells))
		for j, cell := range cells {
			row[j] = cellString(cell)
		}
		table[i] = row
	}
	return table, nil
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(cell)
}

// FetchTidy runs the whole pipeline for one endpoint: data fetch,
// shape normalization, catalog fetch, tidy join.
func (c *Client) FetchTidy(ctx context.Context, ep Endpoint) ([]TidyRow, error) {
	ctx, span := tracer.Start(ctx, "FetchTidy")
	defer span.End()
	span.SetAttributes(attribute.String("url", ep.UrlNoKey()))

	table, err := c.FetchTable(ctx, ep.FullUrl())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "data fetch failed")
		return nil, fmt.Errorf("dataset %s: %w", ep.Dataset, err)
	}
	rows := Normalize(table, timezone.Now())

	labels, err := c.FetchRequestedVariables(ctx, ep)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog fetch failed")
		return nil, fmt.Errorf("dataset %s: %w", ep.Dataset, err)
	}

	return Tidy(rows, labels, ep), nil
}
