package llm

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed providers/*.yaml
var providerFiles embed.FS

// Provider describes an OpenAI-compatible completion endpoint.
type Provider struct {
	Name         string `yaml:"name"`
	BaseURL      string `yaml:"base_url"`
	DefaultModel string `yaml:"default_model"`
}

// Registry holds the known completion providers, loaded from embedded
// YAML at startup.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a provider registry from the embedded YAML files.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]Provider),
	}

	entries, err := providerFiles.ReadDir("providers")
	if err != nil {
		return nil, fmt.Errorf("read provider directory: %w", err)
	}

	for _, entry := range entries {
		data, err := providerFiles.ReadFile("providers/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read provider file %s: %w", entry.Name(), err)
		}

		var provider Provider
		if err := yaml.Unmarshal(data, &provider); err != nil {
			return nil, fmt.Errorf("parse provider file %s: %w", entry.Name(), err)
		}
		if provider.Name == "" || provider.BaseURL == "" {
			return nil, fmt.Errorf("provider file %s: name and base_url are required", entry.Name())
		}

		r.providers[provider.Name] = provider
	}

	return r, nil
}

// Provider returns the named provider or an error listing what exists.
func (r *Registry) Provider(name string) (Provider, error) {
	provider, ok := r.providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("unknown LLM provider %q (known: %v)", name, r.Names())
	}
	return provider, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
