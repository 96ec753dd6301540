// Package odoo implements the four read-only query tools backed by the
// Odoo RPC adapter: search_records, get_record, list_models and
// get_model_fields. Arguments are validated before any network access;
// validation failures carry field-qualified messages.
package odoo

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/odoomcp/metricskey"
	"github.com/effective-security/odoomcp/odoorpc"
	"github.com/effective-security/odoomcp/tools"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/odoomcp", "tools/odoo")

// Querier is the subset of the RPC adapter the tools depend on.
type Querier interface {
	SearchRead(ctx context.Context, model string, domain []any, opts odoorpc.SearchOptions) ([]odoorpc.Record, error)
	Read(ctx context.Context, model string, ids []int64, fields []string) ([]odoorpc.Record, error)
	FieldsGet(ctx context.Context, model string, fields []string) (map[string]odoorpc.Record, error)
	ListModels(ctx context.Context, includeTransient bool) ([]odoorpc.ModelInfo, error)
}

var _ Querier = (*odoorpc.Client)(nil)

// All returns the full tool set over the given adapter.
func All(q Querier) []tools.ITool {
	return []tools.ITool{
		NewSearchRecords(q),
		NewGetRecord(q),
		NewListModels(q),
		NewGetModelFields(q),
	}
}

var validate = validator.New()

// validateInput checks the request struct and reports violations with
// field paths, so the caller can correct the arguments.
func validateInput(tool string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	metricskey.StatsToolInputErrors.IncrCounter(1, tool)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeViolation(fe))
		}
		return errors.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
	}
	return errors.WithMessage(err, "invalid arguments")
}

func describeViolation(fe validator.FieldError) string {
	path := fe.Namespace()
	// drop the request struct name, keep nested paths
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return path + " is required and must not be empty"
	case "gte":
		return path + " must be greater than or equal to " + fe.Param()
	case "lte":
		return path + " must be less than or equal to " + fe.Param()
	case "gt":
		return path + " must be greater than " + fe.Param()
	case "min":
		return path + " must contain at least " + fe.Param() + " items"
	default:
		return path + " failed the " + fe.Tag() + " check"
	}
}
