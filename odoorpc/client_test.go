package odoorpc_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/odoomcp/odoorpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOdoo serves canned XML-RPC responses for the common and object
// endpoints and records every request body for assertions.
type fakeOdoo struct {
	t   *testing.T
	srv *httptest.Server

	mu          sync.Mutex
	commonCalls int
	objectCalls int
	lastBody    string
	authValue   string // inner <value> of the authenticate response
	objectValue string // inner <value> of the execute_kw response
	objectFault string // when set, execute_kw responds with a fault
}

func newFakeOdoo(t *testing.T) *fakeOdoo {
	f := &fakeOdoo{
		t:           t,
		authValue:   "<int>7</int>",
		objectValue: "<array><data></data></array>",
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeOdoo) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(f.t, err)

	f.mu.Lock()
	f.lastBody = string(body)
	var value, fault string
	switch r.URL.Path {
	case "/xmlrpc/2/common":
		f.commonCalls++
		value = f.authValue
	case "/xmlrpc/2/object":
		f.objectCalls++
		value = f.objectValue
		fault = f.objectFault
	default:
		f.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml")
	if fault != "" {
		fmt.Fprintf(w, `<?xml version="1.0"?>
<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>1</int></value></member>
<member><name>faultString</name><value><string>%s</string></value></member>
</struct></value></fault></methodResponse>`, fault)
		return
	}
	fmt.Fprintf(w, `<?xml version="1.0"?>
<methodResponse><params><param><value>%s</value></param></params></methodResponse>`, value)
}

func (f *fakeOdoo) counts() (common, object int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commonCalls, f.objectCalls
}

func (f *fakeOdoo) body() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func (f *fakeOdoo) client() *odoorpc.Client {
	return odoorpc.NewClient(odoorpc.Config{
		URL:      f.srv.URL,
		Database: "testdb",
		Username: "admin",
		Password: "secret",
		Timeout:  5 * time.Second,
	})
}

const partnerRecords = `<array><data>
<value><struct>
<member><name>id</name><value><int>1</int></value></member>
<member><name>name</name><value><string>Azure Interior</string></value></member>
</struct></value>
<value><struct>
<member><name>id</name><value><int>2</int></value></member>
<member><name>name</name><value><string>Deco Addict</string></value></member>
</struct></value>
</data></array>`

func Test_Authenticate_CachesToken(t *testing.T) {
	f := newFakeOdoo(t)
	c := f.client()
	ctx := context.Background()

	uid, err := c.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid)

	_, err = c.SearchRead(ctx, "res.partner", nil, odoorpc.SearchOptions{})
	require.NoError(t, err)
	_, err = c.SearchRead(ctx, "res.partner", nil, odoorpc.SearchOptions{})
	require.NoError(t, err)

	common, object := f.counts()
	assert.Equal(t, 1, common, "authenticate must be issued at most once after a cached success")
	assert.Equal(t, 2, object)
	// cached uid is passed on every execute_kw call
	assert.Contains(t, f.body(), "<int>7</int>")
}

func Test_Authenticate_InvalidCredentials(t *testing.T) {
	f := newFakeOdoo(t)
	f.authValue = "<boolean>0</boolean>"
	c := f.client()
	ctx := context.Background()

	_, err := c.SearchRead(ctx, "res.partner", nil, odoorpc.SearchOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, odoorpc.ErrInvalidCredentials))

	// a failed authentication is not cached; the next call retries
	_, err = c.Authenticate(ctx)
	assert.True(t, errors.Is(err, odoorpc.ErrInvalidCredentials))
	common, object := f.counts()
	assert.Equal(t, 2, common)
	assert.Equal(t, 0, object, "no object call may happen without a token")
}

func Test_SearchRead_Kwargs(t *testing.T) {
	f := newFakeOdoo(t)
	c := f.client()
	ctx := context.Background()

	_, err := c.SearchRead(ctx, "res.partner", nil, odoorpc.SearchOptions{Limit: 10})
	require.NoError(t, err)
	body := f.body()
	assert.Contains(t, body, "<methodName>execute_kw</methodName>")
	assert.Contains(t, body, "search_read")
	assert.Contains(t, body, "<name>offset</name>", "offset is always sent")
	assert.Contains(t, body, "<name>limit</name>")
	assert.NotContains(t, body, "<name>order</name>")
	assert.NotContains(t, body, "<name>fields</name>")

	_, err = c.SearchRead(ctx, "res.partner", nil, odoorpc.SearchOptions{
		Fields: []string{"name"},
		Order:  "name asc",
	})
	require.NoError(t, err)
	body = f.body()
	assert.Contains(t, body, "<name>offset</name>")
	assert.Contains(t, body, "<name>fields</name>")
	assert.Contains(t, body, "<name>order</name>")
	assert.NotContains(t, body, "<name>limit</name>")
}

func Test_SearchRead_Decode(t *testing.T) {
	f := newFakeOdoo(t)
	f.objectValue = partnerRecords
	c := f.client()

	recs, err := c.SearchRead(context.Background(), "res.partner", []any{}, odoorpc.SearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Azure Interior", recs[0]["name"])
	assert.Equal(t, int64(2), recs[1]["id"])
}

func Test_ExecuteKw_Fault(t *testing.T) {
	f := newFakeOdoo(t)
	f.objectFault = "Invalid field 'foo' on model 'res.partner'"
	c := f.client()

	_, err := c.SearchRead(context.Background(), "res.partner", nil, odoorpc.SearchOptions{})
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid field 'foo' on model 'res.partner'")
}

func Test_Read(t *testing.T) {
	f := newFakeOdoo(t)
	f.objectValue = partnerRecords
	c := f.client()

	recs, err := c.Read(context.Background(), "res.partner", []int64{1, 2}, []string{"name"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// remote order is preserved
	assert.Equal(t, int64(1), recs[0]["id"])
	assert.Equal(t, int64(2), recs[1]["id"])
	assert.Contains(t, f.body(), "<string>read</string>")
}

func Test_FieldsGet(t *testing.T) {
	f := newFakeOdoo(t)
	f.objectValue = `<struct>
<member><name>name</name><value><struct>
<member><name>string</name><value><string>Name</string></value></member>
<member><name>type</name><value><string>char</string></value></member>
<member><name>required</name><value><boolean>1</boolean></value></member>
</struct></value></member>
</struct>`
	c := f.client()

	fields, err := c.FieldsGet(context.Background(), "res.partner", nil)
	require.NoError(t, err)
	require.Contains(t, fields, "name")
	assert.Equal(t, "char", fields["name"]["type"])
	assert.Contains(t, f.body(), "<name>attributes</name>")
}

func Test_ListModels(t *testing.T) {
	f := newFakeOdoo(t)
	f.objectValue = `<array><data>
<value><struct>
<member><name>model</name><value><string>res.partner</string></value></member>
<member><name>name</name><value><string>Contact</string></value></member>
</struct></value>
</data></array>`
	c := f.client()

	models, err := c.ListModels(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, odoorpc.ModelInfo{Model: "res.partner", Name: "Contact"}, models[0])
	assert.Contains(t, f.body(), "transient", "transient models are filtered out by default")

	_, err = c.ListModels(context.Background(), true)
	require.NoError(t, err)
	assert.NotContains(t, f.body(), "transient")
}

func Test_Config_Secret(t *testing.T) {
	cfg := odoorpc.Config{Password: "pw"}
	assert.Equal(t, "pw", cfg.Secret())
	cfg.APIKey = "key"
	assert.Equal(t, "key", cfg.Secret(), "API key takes precedence over password")
}

func Test_Authenticate_ContextCancelled(t *testing.T) {
	f := newFakeOdoo(t)
	c := f.client()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Authenticate(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	common, _ := f.counts()
	assert.Equal(t, 0, common)
}
