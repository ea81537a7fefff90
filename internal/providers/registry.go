package providers

import (
	"fmt"

	"github.com/hibari-app/hibari/internal/models"
)

var registry = make(map[string]models.Provider)

// Register adds a new provider to the registry. It's called at startup.
func Register(p models.Provider) {
	info := p.Info()
	if _, exists := registry[info.Code]; exists {
		// Panic is appropriate here as it's a developer error during setup.
		panic(fmt.Sprintf("provider with code '%s' is already registered", info.Code))
	}
	registry[info.Code] = p
}

// Unregister removes a provider. Only used by tests to restore state.
func Unregister(code string) {
	delete(registry, code)
}

// Get returns a provider by its code.
func Get(code string) (models.Provider, bool) {
	p, ok := registry[code]
	return p, ok
}

// GetAll returns information and capabilities for all registered providers.
func GetAll() []Registration {
	var all []Registration
	for _, p := range registry {
		all = append(all, Registration{Info: p.Info(), Config: p.Config()})
	}
	return all
}

// Registration pairs a provider's identity with its declared capabilities,
// the shape callers consult before offering or invoking an operation.
type Registration struct {
	Info   models.ProviderInfo   `json:"info"`
	Config models.ProviderConfig `json:"config"`
}

// Supports reports whether the registered provider declares the capability
// for the media type. Unknown codes support nothing.
func Supports(code string, cap models.Capability, mediaType models.MediaType) bool {
	p, ok := registry[code]
	if !ok {
		return false
	}
	return p.Config().Supports(cap, mediaType)
}
