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

const GetModelFieldsToolName = "get_model_fields"

// GetModelFieldsRequest represents the get_model_fields tool input.
type GetModelFieldsRequest struct {
	Model  string   `json:"model" yaml:"model" validate:"required" jsonschema:"title=Model,description=Odoo model name such as res.partner."`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty" jsonschema:"title=Fields,description=Restrict the description to these field names. Omit to describe all fields."`
}

// GetModelFieldsResponse holds the field definitions of a model.
type GetModelFieldsResponse struct {
	Model  string                    `json:"model"`
	Fields map[string]odoorpc.Record `json:"fields"`
}

func (r *GetModelFieldsResponse) String() string {
	return fmt.Sprintf("%d fields on %s:\n%s", len(r.Fields), r.Model, llmutils.ToJSONIndent(r.Fields))
}

// GetModelFieldsTool describes the fields of an Odoo model.
type GetModelFieldsTool struct {
	q           Querier
	name        string
	description string
}

var _ tools.Tool[GetModelFieldsRequest, GetModelFieldsResponse] = (*GetModelFieldsTool)(nil)

func NewGetModelFields(q Querier) *GetModelFieldsTool {
	return &GetModelFieldsTool{
		q:           q,
		name:        GetModelFieldsToolName,
		description: "Describe the fields of an Odoo model: label, type, required/readonly flags and relations.",
	}
}

func (t *GetModelFieldsTool) Name() string {
	return t.name
}

func (t *GetModelFieldsTool) Description() string {
	return t.description
}

func (t *GetModelFieldsTool) Parameters() any {
	sc, _ := schema.New(reflect.TypeOf(GetModelFieldsRequest{}))
	return sc.Parameters
}

func (t *GetModelFieldsTool) Run(ctx context.Context, req *GetModelFieldsRequest) (*GetModelFieldsResponse, error) {
	if err := validateInput(t.name, req); err != nil {
		return nil, err
	}
	fields, err := t.q.FieldsGet(ctx, req.Model, req.Fields)
	if err != nil {
		return nil, err
	}
	return &GetModelFieldsResponse{
		Model:  req.Model,
		Fields: fields,
	}, nil
}

func (t *GetModelFieldsTool) Call(ctx context.Context, input string) (string, error) {
	var req GetModelFieldsRequest
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
