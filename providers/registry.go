package providers

import (
	"fmt"
	"sync"
)

// Registry manages the registration and retrieval of providers. It is safe
// for concurrent use.
type Registry struct {
	providers map[string]ProviderConstructor
	mutex     sync.RWMutex
}

// NewRegistry creates a registry with the named providers registered. With
// no names, all known providers are registered.
func NewRegistry(providerNames ...string) *Registry {
	registry := &Registry{
		providers: make(map[string]ProviderConstructor),
	}

	known := knownProviders()
	if len(providerNames) == 0 {
		for name, constructor := range known {
			registry.providers[name] = constructor
		}
		return registry
	}
	for _, name := range providerNames {
		if constructor, ok := known[name]; ok {
			registry.providers[name] = constructor
		}
	}
	return registry
}

func knownProviders() map[string]ProviderConstructor {
	return map[string]ProviderConstructor{
		"openai": NewOpenAIProvider,
		"mock": func(apiKey, model string, extraHeaders map[string]string) Provider {
			return NewMockProvider("", model, extraHeaders)
		},
	}
}

// Register adds or replaces a provider constructor.
func (r *Registry) Register(name string, constructor ProviderConstructor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.providers[name] = constructor
}

// Get constructs the named provider.
func (r *Registry) Get(name, apiKey, model string, extraHeaders map[string]string) (Provider, error) {
	r.mutex.RLock()
	constructor, ok := r.providers[name]
	r.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return constructor(apiKey, model, extraHeaders), nil
}
