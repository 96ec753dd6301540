package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/effective-security/odoomcp/metricskey"
	"github.com/effective-security/odoomcp/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/odoomcp", "mcpserver")

// Registry holds the fixed set of callable tools. It is immutable after
// construction.
type Registry struct {
	names  []string
	byName map[string]tools.ITool
}

func NewRegistry(list ...tools.ITool) *Registry {
	r := &Registry{
		byName: make(map[string]tools.ITool, len(list)),
	}
	for _, t := range list {
		name := strings.ToLower(t.Name())
		if _, ok := r.byName[name]; ok {
			continue
		}
		r.byName[name] = t
		r.names = append(r.names, t.Name())
	}
	return r
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []tools.ITool {
	out := make([]tools.ITool, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[strings.ToLower(name)])
	}
	return out
}

// Lookup returns the named tool, or nil.
func (r *Registry) Lookup(name string) tools.ITool {
	return r.byName[strings.ToLower(name)]
}

// Dispatch validates and executes one tool call. An unknown tool name
// yields a benign text result, not an error; tool failures are returned
// as errors for the transport layer to flag.
func (r *Registry) Dispatch(ctx context.Context, name, input string) (string, error) {
	tool := r.Lookup(name)
	if tool == nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool", name,
			"available_tools", strings.Join(r.names, ", "),
		)
		return fmt.Sprintf("Unknown tool: %s. Available tools: %s", name, strings.Join(r.names, ", ")), nil
	}

	started := time.Now()
	res, err := tool.Call(ctx, input)
	metricskey.PerfToolCall.MeasureSince(started, name)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "tool_call_failed",
			"tool", name,
			"err", err.Error(),
		)
		return "", err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	return res, nil
}
