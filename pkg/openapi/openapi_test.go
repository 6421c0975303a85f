package openapi

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/wingman-soap/pkg/client"
)

func duckClient(t *testing.T, name string) *client.Client {
	t.Helper()

	c, err := client.New(context.Background(), "../wsdl/testdata/"+name)
	require.NoError(t, err)

	return c
}

func TestExportPaths(t *testing.T) {
	doc := Export(duckClient(t, "DuckService.wsdl"), "")

	require.NoError(t, doc.Validate(context.Background()))

	assert.Equal(t, "DuckService", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "http://localhost:8080/axis/services/DuckService", doc.Servers[0].URL)

	var paths []string

	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}

	assert.ElementsMatch(t, []string{
		"/Disco.Submit/0",
		"/Disco.Submit/1",
		"/Disco.Submit/2",
		"/Disco.List",
		"/Disco.ListNew",
		"/Disco.Count",
		"/KeepAlive",
	}, paths)

	submit := doc.Paths.Value("/Disco.Submit/1").GetOperation("POST")
	require.NotNil(t, submit)

	assert.Equal(t, "disco_submit_1", submit.OperationID)
	assert.Contains(t, submit.Description, "Disco.SubmitRequest2")
}

func TestExportSchemas(t *testing.T) {
	doc := Export(duckClient(t, "DuckService.wsdl"), "Ducks")

	assert.Equal(t, "Ducks", doc.Info.Title)

	count := doc.Paths.Value("/Disco.Count").GetOperation("POST")
	require.NotNil(t, count)

	request := count.RequestBody.Value.Content.Get("application/json").Schema.Value
	require.Contains(t, request.Properties, "SessionID")
	assert.True(t, request.Properties["SessionID"].Value.Type.Is("integer"))

	response := count.Responses.Status(200).Value.Content.Get("application/json").Schema.Value
	assert.True(t, response.Type.Is("string"))

	submit := doc.Paths.Value("/Disco.Submit/1").GetOperation("POST")
	output := submit.Responses.Status(200).Value.Content.Get("application/json").Schema.Value

	assert.True(t, output.Type.Is("object"))
	assert.Contains(t, output.Properties, "invalidJob")
	assert.Contains(t, output.Properties, "resendList")

	keepAlive := doc.Paths.Value("/KeepAlive").GetOperation("POST")
	input := keepAlive.RequestBody.Value.Content.Get("application/json").Schema.Value

	assert.True(t, input.Properties["Details"].Value.Type.Is("array"))
	assert.Len(t, input.Properties, 2)
}

func TestExportDocumentLiteral(t *testing.T) {
	doc := Export(duckClient(t, "DuckService2.wsdl"), "")

	require.NoError(t, doc.Validate(context.Background()))

	add := doc.Paths.Value("/duckAdd").GetOperation("POST")
	require.NotNil(t, add)

	assert.Equal(t, "duck_add", add.OperationID)

	input := add.RequestBody.Value.Content.Get("application/json").Schema.Value

	assert.Len(t, input.Properties, 3)
	assert.Contains(t, input.Properties, "username")
}

func TestMarshal(t *testing.T) {
	doc := Export(duckClient(t, "DuckService.wsdl"), "")

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			data, err := Marshal(doc, format)
			require.NoError(t, err)

			loaded, err := openapi3.NewLoader().LoadFromData(data)
			require.NoError(t, err)

			assert.Equal(t, 7, loaded.Paths.Len())
			assert.Equal(t, "3.0.3", loaded.OpenAPI)
		})
	}

	data, err := Marshal(doc, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "openapi: 3.0.3")

	_, err = Marshal(doc, "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
