// Package odoorpc implements a read-only client adapter for the Odoo
// external RPC API. The adapter turns (model, method, args, kwargs)
// tuples into authenticated XML-RPC calls and classifies failures into
// credential, fault and transport errors.
package odoorpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/odoomcp/metricskey"
	"github.com/effective-security/xlog"
	"github.com/kolo/xmlrpc"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/odoomcp", "odoorpc")

// ErrInvalidCredentials is returned when Odoo rejects the configured
// database, user or secret. It is never cached: the next call
// re-authenticates from scratch.
var ErrInvalidCredentials = errors.New("odoo: invalid credentials")

const (
	commonPath = "/xmlrpc/2/common"
	objectPath = "/xmlrpc/2/object"
)

// Config describes the Odoo endpoint and principal.
type Config struct {
	// URL is the base address of the Odoo server, e.g. https://mycompany.odoo.com
	URL string
	// Database is the tenant database name
	Database string
	// Username is the login of the querying user
	Username string
	// Password is the user password
	Password string
	// APIKey takes precedence over Password when both are set
	APIKey string
	// Timeout bounds each RPC round trip; zero means no deadline
	Timeout time.Duration
}

// Secret returns the credential used on authenticate and execute calls.
func (c Config) Secret() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.Password
}

// Record is a single Odoo record decoded from the wire.
type Record = map[string]any

// ModelInfo describes one entry of the ir.model catalog.
type ModelInfo struct {
	Model string `json:"model"`
	Name  string `json:"name"`
}

// SearchOptions carries the optional arguments of SearchRead.
// Zero values are omitted from the keyword arguments, except Offset
// which is always sent.
type SearchOptions struct {
	Fields []string
	Offset int
	Limit  int
	Order  string
}

// Client is the remote adapter. One instance per process; the identity
// token obtained on first use is reused for all subsequent calls.
type Client struct {
	cfg Config

	mu     sync.Mutex
	uid    int64
	common *xmlrpc.Client
	object *xmlrpc.Client
}

// NewClient constructs the adapter. No network access happens until the
// first call.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) endpoint(cached **xmlrpc.Client, path string) (*xmlrpc.Client, error) {
	if *cached != nil {
		return *cached, nil
	}
	url := strings.TrimRight(c.cfg.URL, "/") + path
	cl, err := xmlrpc.NewClient(url, newTimeoutTransport(c.cfg.Timeout))
	if err != nil {
		return nil, errors.WithMessagef(err, "odoo: invalid endpoint %q", url)
	}
	*cached = cl
	return cl, nil
}

// Authenticate returns the cached identity token, or performs the
// authenticate call against the common endpoint. A falsy result means
// invalid credentials and is not cached.
func (c *Client) Authenticate(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *Client) authenticateLocked(ctx context.Context) (int64, error) {
	if c.uid != 0 {
		return c.uid, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, errors.WithStack(err)
	}

	cl, err := c.endpoint(&c.common, commonPath)
	if err != nil {
		return 0, err
	}

	var res any
	err = cl.Call("authenticate", []any{
		c.cfg.Database, c.cfg.Username, c.cfg.Secret(), map[string]any{},
	}, &res)
	if err != nil {
		return 0, classifyErr(err, "common", "authenticate")
	}

	uid := asInt64(res)
	if uid == 0 {
		metricskey.StatsRPCAuthFailed.IncrCounter(1, c.cfg.Database)
		logger.KV(xlog.WARNING,
			"status", "authentication_failed",
			"database", c.cfg.Database,
			"username", c.cfg.Username,
		)
		return 0, ErrInvalidCredentials
	}

	logger.KV(xlog.DEBUG,
		"status", "authenticated",
		"database", c.cfg.Database,
		"uid", uid,
	)
	c.uid = uid
	return uid, nil
}

// ExecuteKw issues one authenticated execute_kw call against the object
// endpoint. Every operation is implicitly authenticated; a cached token
// is reused without re-validation.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	uid, err := c.authenticateLocked(ctx)
	if err != nil {
		return nil, err
	}

	cl, err := c.endpoint(&c.object, objectPath)
	if err != nil {
		return nil, err
	}

	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	started := time.Now()
	var res any
	err = cl.Call("execute_kw", []any{
		c.cfg.Database, uid, c.cfg.Secret(), model, method, args, kwargs,
	}, &res)
	metricskey.PerfRPCCall.MeasureSince(started, model, method)
	if err != nil {
		return nil, classifyErr(err, model, method)
	}
	return res, nil
}

// SearchRead searches the model with the given domain filter and
// returns the matching records. The domain travels as the single
// positional argument; fields, limit and order are merged into keyword
// arguments only when present, offset is always sent.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, opts SearchOptions) ([]Record, error) {
	if domain == nil {
		domain = []any{}
	}
	kwargs := map[string]any{
		"offset": opts.Offset,
	}
	if len(opts.Fields) > 0 {
		kwargs["fields"] = opts.Fields
	}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}

	res, err := c.ExecuteKw(ctx, model, "search_read", []any{domain}, kwargs)
	if err != nil {
		return nil, err
	}
	return toRecords(res)
}

// Read fetches the given ids and returns the records in the order the
// server reported them.
func (c *Client) Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error) {
	kwargs := map[string]any{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	res, err := c.ExecuteKw(ctx, model, "read", []any{ids}, kwargs)
	if err != nil {
		return nil, err
	}
	return toRecords(res)
}

// fieldAttributes is the fixed projection requested from fields_get.
var fieldAttributes = []string{"string", "help", "type", "required", "readonly", "relation"}

// FieldsGet describes the fields of the model. An empty fields slice
// describes all of them.
func (c *Client) FieldsGet(ctx context.Context, model string, fields []string) (map[string]Record, error) {
	args := []any{}
	if len(fields) > 0 {
		args = append(args, fields)
	}
	res, err := c.ExecuteKw(ctx, model, "fields_get", args, map[string]any{
		"attributes": fieldAttributes,
	})
	if err != nil {
		return nil, err
	}

	m, ok := res.(map[string]any)
	if !ok {
		return nil, errors.Errorf("odoo: unexpected fields_get result type %T", res)
	}
	out := make(map[string]Record, len(m))
	for name, def := range m {
		rec, ok := def.(map[string]any)
		if !ok {
			return nil, errors.Errorf("odoo: unexpected field definition type %T for %q", def, name)
		}
		out[name] = rec
	}
	return out, nil
}

// ListModels returns the ir.model catalog. Transient (wizard) models
// are excluded unless requested.
func (c *Client) ListModels(ctx context.Context, includeTransient bool) ([]ModelInfo, error) {
	domain := []any{}
	if !includeTransient {
		domain = append(domain, []any{"transient", "=", false})
	}
	recs, err := c.SearchRead(ctx, "ir.model", domain, SearchOptions{
		Fields: []string{"model", "name"},
		Order:  "model",
	})
	if err != nil {
		return nil, err
	}

	out := make([]ModelInfo, 0, len(recs))
	for _, rec := range recs {
		mi := ModelInfo{}
		mi.Model, _ = rec["model"].(string)
		mi.Name, _ = rec["name"].(string)
		out = append(out, mi)
	}
	return out, nil
}

// classifyErr separates server-reported faults from transport failures.
// Fault messages are surfaced verbatim; transport errors keep their
// cause wrapped for the caller.
func classifyErr(err error, model, method string) error {
	var fault xmlrpc.FaultError
	if errors.As(err, &fault) {
		metricskey.StatsRPCFaults.IncrCounter(1, model, method)
		msg := strings.TrimSpace(fault.String)
		if msg == "" {
			msg = fault.Error()
		}
		return errors.New(msg)
	}
	return errors.WithMessagef(err, "odoo: transport error on %s.%s", model, method)
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		// Odoo returns boolean false on bad credentials
		return 0
	}
}

func toRecords(res any) ([]Record, error) {
	items, ok := res.([]any)
	if !ok {
		return nil, errors.Errorf("odoo: unexpected result type %T, want list of records", res)
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, errors.Errorf("odoo: unexpected record type %T", item)
		}
		out = append(out, rec)
	}
	return out, nil
}
