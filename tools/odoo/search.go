package odoo

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/effective-security/odoomcp/llmutils"
	"github.com/effective-security/odoomcp/odoorpc"
	"github.com/effective-security/odoomcp/schema"
	"github.com/effective-security/odoomcp/tools"
	"github.com/effective-security/xlog"
)

const SearchRecordsToolName = "search_records"

// SearchRecordsRequest represents the search_records tool input.
type SearchRecordsRequest struct {
	Model  string   `json:"model" yaml:"model" validate:"required" jsonschema:"title=Model,description=Odoo model name such as res.partner or sale.order."`
	Domain []any    `json:"domain,omitempty" yaml:"domain,omitempty" jsonschema:"title=Domain,description=Odoo domain filter: a list of [field operator value] triplets. An empty list matches all records."`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty" jsonschema:"title=Fields,description=Field names to return. Omit to return all fields."`
	Limit  int      `json:"limit,omitempty" yaml:"limit,omitempty" validate:"omitempty,gte=1,lte=1000" jsonschema:"title=Limit,description=Maximum number of records to return. Must be between 1 and 1000."`
	Offset int      `json:"offset,omitempty" yaml:"offset,omitempty" validate:"omitempty,gte=0" jsonschema:"title=Offset,description=Number of records to skip."`
	Order  string   `json:"order,omitempty" yaml:"order,omitempty" jsonschema:"title=Order,description=Sort specification such as 'name asc'."`
}

// SearchRecordsResponse holds the matching records.
type SearchRecordsResponse struct {
	Count   int              `json:"count"`
	Records []odoorpc.Record `json:"records"`
}

func (r *SearchRecordsResponse) String() string {
	return fmt.Sprintf("Found %d records:\n%s", r.Count, llmutils.ToJSONIndent(r.Records))
}

// SearchRecordsTool searches an Odoo model with a domain filter.
type SearchRecordsTool struct {
	q           Querier
	name        string
	description string
}

var _ tools.Tool[SearchRecordsRequest, SearchRecordsResponse] = (*SearchRecordsTool)(nil)

func NewSearchRecords(q Querier) *SearchRecordsTool {
	return &SearchRecordsTool{
		q:           q,
		name:        SearchRecordsToolName,
		description: "Search for records of an Odoo model using a domain filter, with optional field projection, paging and ordering.",
	}
}

func (t *SearchRecordsTool) Name() string {
	return t.name
}

func (t *SearchRecordsTool) Description() string {
	return t.description
}

func (t *SearchRecordsTool) Parameters() any {
	sc, _ := schema.New(reflect.TypeOf(SearchRecordsRequest{}))
	return sc.Parameters
}

func (t *SearchRecordsTool) Run(ctx context.Context, req *SearchRecordsRequest) (*SearchRecordsResponse, error) {
	if err := validateInput(t.name, req); err != nil {
		return nil, err
	}
	recs, err := t.q.SearchRead(ctx, req.Model, req.Domain, odoorpc.SearchOptions{
		Fields: req.Fields,
		Offset: req.Offset,
		Limit:  req.Limit,
		Order:  req.Order,
	})
	if err != nil {
		return nil, err
	}
	return &SearchRecordsResponse{
		Count:   len(recs),
		Records: recs,
	}, nil
}

func (t *SearchRecordsTool) Call(ctx context.Context, input string) (string, error) {
	var req SearchRecordsRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"tool", t.name,
			"status", "unmarshal_failed",
			"err", err.Error(),
		)
		return "", tools.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
