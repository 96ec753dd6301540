// Package metricskey describes the metrics emitted by this repo.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total calls to unknown tools",
		RequiredTags: []string{"tool"},
	}

	StatsToolInputErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_input_errors",
		Help:         "stats_tool_input_errors provides total tool calls rejected by input validation",
		RequiredTags: []string{"tool"},
	}

	StatsRPCAuthFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_rpc_auth_failed",
		Help:         "stats_rpc_auth_failed provides total failed Odoo authentications",
		RequiredTags: []string{"database"},
	}

	StatsRPCFaults = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_rpc_faults",
		Help:         "stats_rpc_faults provides total faults reported by the Odoo server",
		RequiredTags: []string{"model", "method"},
	}
)

// Perf
var (
	PerfRPCCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_rpc_call",
		Help:         "perf_rpc_call provides duration of an Odoo execute_kw call",
		RequiredTags: []string{"model", "method"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfRPCCall,
	&PerfToolCall,
	&StatsRPCAuthFailed,
	&StatsRPCFaults,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsToolInputErrors,
}
