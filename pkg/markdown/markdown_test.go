package markdown

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer

	Render(&buf, "## Disco.Submit (3 overloads)")

	assert.Equal(t, "## Disco.Submit (3 overloads)\n", buf.String())
}

func TestRenderFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "describe-*.md")
	require.NoError(t, err)

	defer f.Close()

	assert.False(t, isTerminal(f))

	Render(f, "# DuckService")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)

	assert.Equal(t, "# DuckService\n", string(data))
}
