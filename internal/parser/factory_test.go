package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/parser"
	"docextract/internal/port"
)

func testRegistry() *parser.Registry {
	r := parser.NewRegistry()
	for _, name := range []string{config.ProviderOpenAI, config.ProviderGemini} {
		r.Register(name, func(cfg *config.ParserProviderConfig) port.InvoiceExtractor {
			return newProvider(cfg.Provider)
		})
	}
	return r
}

func TestRegistry_New(t *testing.T) {
	r := testRegistry()

	ext, err := r.New(&config.ParserProviderConfig{Provider: config.ProviderGemini})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderGemini, ext.Name())

	_, err = r.New(&config.ParserProviderConfig{Provider: "mistral"})
	assert.Error(t, err)
}

func TestRegistry_Names(t *testing.T) {
	assert.Equal(t, []string{"gemini", "openai"}, testRegistry().Names())
}

func TestRegistry_NewFailover(t *testing.T) {
	r := testRegistry()
	cfg := &config.ParserConfig{
		Primary: config.ProviderOpenAI,
		Providers: map[string]config.ParserProviderConfig{
			config.ProviderOpenAI: {Provider: config.ProviderOpenAI},
			config.ProviderGemini: {Provider: config.ProviderGemini},
		},
	}

	f, err := r.NewFailover(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOpenAI, f.Primary())
	assert.Equal(t, config.ProviderGemini, f.Fallback())
}

func TestRegistry_NewFailover_UnknownFallback(t *testing.T) {
	r := testRegistry()
	cfg := &config.ParserConfig{Primary: config.ProviderOpenAI, Fallback: config.ProviderClaude}

	_, err := r.NewFailover(cfg)
	assert.Error(t, err)
}
