package odoo

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/odoomcp/llmutils"
	"github.com/effective-security/odoomcp/schema"
	"github.com/effective-security/odoomcp/tools"
	"github.com/effective-security/xlog"
)

const GetRecordToolName = "get_record"

// GetRecordRequest represents the get_record tool input.
type GetRecordRequest struct {
	Model  string   `json:"model" yaml:"model" validate:"required" jsonschema:"title=Model,description=Odoo model name such as res.partner."`
	IDs    []int64  `json:"ids" yaml:"ids" validate:"required,min=1,dive,gt=0" jsonschema:"title=IDs,description=Record identifiers to fetch."`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty" jsonschema:"title=Fields,description=Field names to return. Omit to return all fields."`
}

// GetRecordResponse holds the fetched records. A single requested id
// yields a scalar record payload; multiple ids yield a sequence in the
// order the server reported.
type GetRecordResponse struct {
	Count   int `json:"count"`
	Payload any `json:"records"`
}

func (r *GetRecordResponse) String() string {
	return fmt.Sprintf("Found %d records:\n%s", r.Count, llmutils.ToJSONIndent(r.Payload))
}

// GetRecordTool reads Odoo records by id.
type GetRecordTool struct {
	q           Querier
	name        string
	description string
}

var _ tools.Tool[GetRecordRequest, GetRecordResponse] = (*GetRecordTool)(nil)

func NewGetRecord(q Querier) *GetRecordTool {
	return &GetRecordTool{
		q:           q,
		name:        GetRecordToolName,
		description: "Fetch one or more Odoo records by id, with optional field projection. A single id returns one record object, several ids return a list.",
	}
}

func (t *GetRecordTool) Name() string {
	return t.name
}

func (t *GetRecordTool) Description() string {
	return t.description
}

func (t *GetRecordTool) Parameters() any {
	sc, _ := schema.New(reflect.TypeOf(GetRecordRequest{}))
	return sc.Parameters
}

func (t *GetRecordTool) Run(ctx context.Context, req *GetRecordRequest) (*GetRecordResponse, error) {
	if err := validateInput(t.name, req); err != nil {
		return nil, err
	}
	recs, err := t.q.Read(ctx, req.Model, req.IDs, req.Fields)
	if err != nil {
		return nil, err
	}

	res := &GetRecordResponse{
		Count: len(recs),
	}
	if len(req.IDs) == 1 {
		// single id collapses to a scalar record
		if len(recs) == 0 {
			return nil, errors.Errorf("record %d not found in %s", req.IDs[0], req.Model)
		}
		res.Payload = recs[0]
	} else {
		res.Payload = recs
	}
	return res, nil
}

func (t *GetRecordTool) Call(ctx context.Context, input string) (string, error) {
	var req GetRecordRequest
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
