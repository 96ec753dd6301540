package odoo

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/effective-security/odoomcp/llmutils"
	"github.com/effective-security/odoomcp/odoorpc"
	"github.com/effective-security/odoomcp/schema"
	"github.com/effective-security/odoomcp/tools"
	"github.com/effective-security/xlog"
)

const ListModelsToolName = "list_models"

// ListModelsRequest represents the list_models tool input.
type ListModelsRequest struct {
	Transient bool `json:"transient,omitempty" yaml:"transient,omitempty" jsonschema:"title=Transient,description=Include transient (wizard) models in the listing."`
}

// ListModelsResponse holds the model catalog.
type ListModelsResponse struct {
	Models []odoorpc.ModelInfo `json:"models"`
}

func (r *ListModelsResponse) String() string {
	sorted := make([]odoorpc.ModelInfo, len(r.Models))
	copy(sorted, r.Models)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Model < sorted[j].Model })

	var b strings.Builder
	fmt.Fprintf(&b, "Available models (%d):\n", len(sorted))
	for _, m := range sorted {
		if m.Name != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", m.Model, m.Name)
		} else {
			fmt.Fprintf(&b, "- %s\n", m.Model)
		}
	}
	return b.String()
}

// ListModelsTool lists the model types known to the Odoo instance.
type ListModelsTool struct {
	q           Querier
	name        string
	description string
}

var _ tools.Tool[ListModelsRequest, ListModelsResponse] = (*ListModelsTool)(nil)

func NewListModels(q Querier) *ListModelsTool {
	return &ListModelsTool{
		q:           q,
		name:        ListModelsToolName,
		description: "List the model types known to the Odoo instance as a sorted catalog of technical names.",
	}
}

func (t *ListModelsTool) Name() string {
	return t.name
}

func (t *ListModelsTool) Description() string {
	return t.description
}

func (t *ListModelsTool) Parameters() any {
	sc, _ := schema.New(reflect.TypeOf(ListModelsRequest{}))
	return sc.Parameters
}

func (t *ListModelsTool) Run(ctx context.Context, req *ListModelsRequest) (*ListModelsResponse, error) {
	if err := validateInput(t.name, req); err != nil {
		return nil, err
	}
	models, err := t.q.ListModels(ctx, req.Transient)
	if err != nil {
		return nil, err
	}
	return &ListModelsResponse{Models: models}, nil
}

func (t *ListModelsTool) Call(ctx context.Context, input string) (string, error) {
	req := ListModelsRequest{}
	if strings.TrimSpace(input) != "" {
		if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
			logger.ContextKV(ctx, xlog.DEBUG,
				"tool", t.name,
				"status", "unmarshal_failed",
				"err", err.Error(),
			)
			return "", tools.ErrFailedUnmarshalInput
		}
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
