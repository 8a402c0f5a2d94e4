package parser

import (
	"fmt"
	"sort"

	"docextract/internal/config"
	"docextract/internal/port"
)

// ProviderFactory creates an InvoiceExtractor from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) port.InvoiceExtractor

// Registry maps provider names to factories.
type Registry struct {
	providers map[string]ProviderFactory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]ProviderFactory{}}
}

// Register adds a provider factory by name.
func (r *Registry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates an InvoiceExtractor using the factory registered for cfg.Provider.
func (r *Registry) New(cfg *config.ParserProviderConfig) (port.InvoiceExtractor, error) {
	factory, ok := r.providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg), nil
}

// NewFailover builds the primary/fallback pair named by cfg.
func (r *Registry) NewFailover(cfg *config.ParserConfig) (*FailoverExtractor, error) {
	primary, err := r.New(cfg.ProviderConfig(cfg.Primary))
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	fallback, err := r.New(cfg.ProviderConfig(cfg.FallbackProvider()))
	if err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	return NewFailoverExtractor(primary, fallback), nil
}
