package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/adapters/driving/mcp"
)

func TestMCPCmd_Registration(t *testing.T) {
	serve, _, err := rootCmd.Find([]string{"mcp", "serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	port := serve.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)
}

func TestMCPCmd_PortOutOfRange(t *testing.T) {
	setServices(t, Services{RAG: &mockRAG{}})

	_, _, err := execute("mcp", "serve", "--port", "70000")

	assert.EqualError(t, err, "--port: 70000 out of range")
}

func TestMCPCmd_MissingRAG(t *testing.T) {
	_, _, err := execute("mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingRAGService)
}
