package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/wingman-soap/pkg/config"
)

const duckWSDL = "../pkg/wsdl/testdata/DuckService.wsdl"

func TestParseOptions(t *testing.T) {
	options := ParseOptions([]string{"prettyxml=true", "timeout=30s", "faults=false", "location=http://example.com", "=x", "retxml"})

	assert.Equal(t, map[string]any{
		"prettyxml": true,
		"timeout":   "30s",
		"faults":    false,
		"location":  "http://example.com",
		"retxml":    "",
	}, options)
}

func TestConnectFlags(t *testing.T) {
	c, err := Connect(context.Background(), Target{
		WSDL: duckWSDL,
		URL:  "http://localhost:9999/DuckService",

		Options: []string{"timeout=5s", "prettyxml=true"},
	})

	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/DuckService", c.URL())
	assert.Equal(t, 5*time.Second, c.Options().Duration(config.OptionTimeout))
	assert.True(t, c.Options().Bool(config.OptionPrettyXML))
	assert.Len(t, c.Operations(), 5)
}

func TestConnectConfig(t *testing.T) {
	wsdl, err := filepath.Abs(duckWSDL)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "soap.yaml")

	data := "services:\n" +
		"  duck:\n" +
		"    wsdl: " + wsdl + "\n" +
		"    url: http://localhost:7777/duck\n" +
		"    auth:\n" +
		"      type: basic\n" +
		"      username: donald\n" +
		"      password: quack\n" +
		"    options:\n" +
		"      faults: false\n"

	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Connect(context.Background(), Target{Config: path, Name: "duck"})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:7777/duck", c.URL())
	assert.False(t, c.Options().Bool(config.OptionFaults))

	c, err = Connect(context.Background(), Target{Config: path})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7777/duck", c.URL())

	_, err = Connect(context.Background(), Target{Config: path, Name: "goose"})
	assert.ErrorContains(t, err, "goose")
}

func TestConnectErrors(t *testing.T) {
	_, err := Connect(context.Background(), Target{})
	assert.ErrorIs(t, err, ErrNoWSDL)

	_, err = Connect(context.Background(), Target{WSDL: duckWSDL, Options: []string{"bogus=1"}})
	assert.ErrorIs(t, err, config.ErrUnknownOption)

	path := filepath.Join(t.TempDir(), "soap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"services":{"duck":{"wsdl":"`+duckWSDL+`","auth":{"type":"kerberos"}}}}`), 0o644))

	_, err = Connect(context.Background(), Target{Config: path, Name: "duck"})
	assert.ErrorContains(t, err, "kerberos")
}
