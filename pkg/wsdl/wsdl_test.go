package wsdl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/wingman-soap/pkg/soap"
)

func parseFile(t *testing.T, name string) *Definitions {
	t.Helper()

	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)

	d, err := Parse(data)
	require.NoError(t, err)

	return d
}

func duckPort(t *testing.T) *Port {
	t.Helper()

	svc, err := parseFile(t, "DuckService.wsdl").Service("")
	require.NoError(t, err)

	port, err := svc.Port("")
	require.NoError(t, err)

	return port
}

func TestParseOverloaded(t *testing.T) {
	port := duckPort(t)

	assert.Equal(t, "DuckService", port.Name)
	assert.Equal(t, "http://localhost:8080/axis/services/DuckService", port.Location)

	assert.Equal(t, []string{"Disco.Submit", "Disco.List", "Disco.ListNew", "Disco.Count", "KeepAlive"}, port.Order)
	assert.Len(t, port.Operations, 5)

	submit, ok := port.Operation("Disco.Submit")
	require.True(t, ok)
	require.Equal(t, 3, submit.Len())

	members := submit.Members()

	assert.Equal(t, []string{"sessionID", "errorMessage", "assetData"}, members[0].Input)
	assert.Equal(t, []string{"resendList"}, members[0].Output)
	assert.Equal(t, "Disco.SubmitRequest", members[0].Accepts)
	assert.Equal(t, "Disco.SubmitResponse", members[0].Returns)

	assert.Equal(t, []string{"sessionID", "jobID", "jobComplete", "errorMessage", "assetData"}, members[1].Input)
	assert.Equal(t, []string{"invalidJob", "resendList"}, members[1].Output)
	assert.Equal(t, "Disco.SubmitRequest2", members[1].Accepts)

	assert.Equal(t, []string{"SessionID", "ApplianceID", "JobID", "JobComplete", "ErrorMessage", "Asset"}, members[2].Input)
	assert.Equal(t, []string{"MalformedJob", "InvalidJob", "Msg"}, members[2].Output)
	assert.Equal(t, "Disco.SubmitResponseOld", members[2].Returns)

	for _, m := range members {
		assert.Equal(t, soap.StyleRPC, m.Style)
		assert.Equal(t, "http://www.example.com/donald", m.Namespace)
		assert.Equal(t, "Disco.Submit", m.Wrapper())
	}

	require.NoError(t, submit.Validate())
}

func TestParseOverloadSetsAreStable(t *testing.T) {
	port := duckPort(t)

	submit, ok := port.Operation("Disco.Submit")
	require.True(t, ok)

	for i, op := range submit.Members() {
		inv, err := submit.ByIndex(i)
		require.NoError(t, err)

		assert.Same(t, op, inv.Method())
		assert.Len(t, port.Signature(op).Input, len(op.Input))
	}

	assert.Same(t, submit, port.Sets()[0])
}

func TestParseActionAndSignature(t *testing.T) {
	port := duckPort(t)

	list, ok := port.Operation("Disco.List")
	require.True(t, ok)
	assert.False(t, list.Overloaded())
	assert.Equal(t, "urn:Disco.List", list.Members()[0].Action)

	keepAlive, ok := port.Operation("KeepAlive")
	require.True(t, ok)

	op := keepAlive.Members()[0]
	assert.Empty(t, op.Output)

	sig := port.Signature(op)
	require.Len(t, sig.Input, 2)

	assert.Equal(t, Part{Name: "SessionID", Type: "int", Namespace: NamespaceSchema}, sig.Input[0])
	assert.Equal(t, Part{Name: "Details", Type: "ArrayOf_tns1_T_KeyValuePair", Namespace: "http://www.example.com/donald", Repeated: true}, sig.Input[1])

	assert.True(t, sig.Encoded)
	assert.Equal(t, NamespaceEncoding, sig.EncodingStyle)
}

func TestParseTypes(t *testing.T) {
	d := parseFile(t, "DuckService.wsdl")

	pair, ok := d.Type("T_KeyValuePair")
	require.True(t, ok)

	assert.Equal(t, "http://www.example.com/donald/types", pair.Namespace)
	assert.Nil(t, pair.Item)
	assert.Equal(t, []Part{
		{Name: "Key", Type: "string", Namespace: NamespaceEncoding},
		{Name: "Value", Type: "string", Namespace: NamespaceEncoding},
	}, pair.Fields)

	field, ok := pair.Field("Value")
	require.True(t, ok)
	assert.Equal(t, "string", field.Type)

	_, ok = pair.Field("Bogus")
	assert.False(t, ok)

	array, ok := d.Type("ArrayOf_tns1_T_KeyValuePair")
	require.True(t, ok)

	assert.Equal(t, "http://www.example.com/donald", array.Namespace)
	assert.Empty(t, array.Fields)
	assert.Equal(t, &Part{Name: "item", Type: "T_KeyValuePair", Namespace: "http://www.example.com/donald/types"}, array.Item)

	_, ok = d.Type("Bogus")
	assert.False(t, ok)
}

func TestParseDocumentLiteralWrapped(t *testing.T) {
	d := parseFile(t, "DuckService2.wsdl")

	assert.Equal(t, "DuckService", d.Name)

	svc, err := d.Service("DuckService")
	require.NoError(t, err)

	port, err := svc.Port("DuckPort")
	require.NoError(t, err)

	assert.Equal(t, []string{"duckList", "duckAdd"}, port.Order)

	add, ok := port.Operation("duckAdd")
	require.True(t, ok)

	op := add.Members()[0]

	assert.Equal(t, soap.StyleDocument, op.Style)
	assert.Equal(t, "duckAdd", op.Wrapper())
	assert.Equal(t, "http://duck.example.com/", op.Namespace)
	assert.Equal(t, []string{"username", "password", "name"}, op.Input)
	assert.Equal(t, []string{"return"}, op.Output)

	assert.False(t, port.Signature(op).Encoded)

	duckAdd, ok := d.Type("duckAdd")
	require.True(t, ok)

	assert.Equal(t, "http://duck.example.com/", duckAdd.Namespace)
	assert.Equal(t, []Part{
		{Name: "username", Type: "string", Namespace: NamespaceSchema},
		{Name: "password", Type: "string", Namespace: NamespaceSchema},
		{Name: "name", Type: "string", Namespace: NamespaceSchema},
	}, duckAdd.Fields)

	list, ok := port.Operation("duckList")
	require.True(t, ok)

	sig := port.Signature(list.Members()[0])
	require.Len(t, sig.Output, 1)
	assert.True(t, sig.Output[0].Repeated)
	assert.Equal(t, "string", sig.Output[0].Type)
}

func TestParseLookupErrors(t *testing.T) {
	d := parseFile(t, "DuckService.wsdl")

	_, err := d.Service("Bogus")
	assert.ErrorIs(t, err, ErrNoService)

	svc, err := d.Service("")
	require.NoError(t, err)

	_, err = svc.Port("Bogus")
	assert.ErrorIs(t, err, ErrNoPort)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("not xml"))
	assert.Error(t, err)

	_, err = Parse([]byte(`<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"/>`))
	assert.Error(t, err)
}

type memoryCache struct {
	mu sync.Mutex

	data map[string][]byte
}

func (c *memoryCache) Get(ctx context.Context, location string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[location]
	return data, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, location string, data []byte, headers map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[location] = data
	return nil
}

func TestLoad(t *testing.T) {
	data, err := os.ReadFile("testdata/DuckService2.wsdl")
	require.NoError(t, err)

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		assert.Equal(t, "secret", r.Header.Get("X-Token"))

		w.Header().Set("Content-Type", "text/xml")
		w.Write(data)
	}))

	defer server.Close()

	cache := &memoryCache{data: map[string][]byte{}}
	location := server.URL + "/DuckService?wsdl"

	for range 2 {
		d, raw, err := Load(context.Background(), location, WithCache(cache), WithHeaders(map[string]string{"X-Token": "secret"}))

		require.NoError(t, err)
		assert.Equal(t, data, raw)
		assert.Len(t, d.Services, 1)
	}

	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, cache.data, location)
}

func TestLoadFile(t *testing.T) {
	d, _, err := Load(context.Background(), "testdata/DuckService.wsdl")

	require.NoError(t, err)
	assert.Len(t, d.Services, 1)

	_, _, err = Load(context.Background(), "testdata/missing.wsdl")
	assert.Error(t, err)
}

func TestLoadStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, _, err := Load(context.Background(), server.URL+"/missing?wsdl")
	assert.Error(t, err)
}

func TestPartKind(t *testing.T) {
	tests := map[Part]string{
		{Type: "int"}:                         "integer",
		{Type: "boolean"}:                     "boolean",
		{Type: "double"}:                      "number",
		{Type: "dateTime"}:                    "string",
		{Type: ""}:                            "string",
		{Type: "T_KeyValuePair"}:              "object",
		{Type: "string", Repeated: true}:      "array",
		{Type: "ArrayOf_tns1_T_KeyValuePair"}: "object",
	}

	for part, want := range tests {
		assert.Equal(t, want, part.Kind(), part.Type)
	}
}
