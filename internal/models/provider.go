// The uniform capability contract every tracking provider implements, plus
// the capability configuration the registry exposes to callers.

package models

import (
	"context"
	"errors"
)

// ProviderInfo contains static information about a provider.
type ProviderInfo struct {
	Code string `json:"code"` // lowercase registry key, also the mapping prefix
	Name string `json:"name"`
}

// Capability names one of the operations a provider may support per media
// type. Callers consult the registry config before invoking any of them.
type Capability string

const (
	CapabilitySearch Capability = "search"
	CapabilityImport Capability = "import"
	CapabilityExport Capability = "export"
)

// ProviderConfig declares which media types a provider supports for each
// capability. A missing capability means "supported for nothing".
type ProviderConfig struct {
	Search []MediaType `json:"search"`
	Import []MediaType `json:"import"`
	Export []MediaType `json:"export"`
}

// Supports reports whether the provider declares the capability for the
// given media type.
func (c ProviderConfig) Supports(cap Capability, mediaType MediaType) bool {
	var types []MediaType
	switch cap {
	case CapabilitySearch:
		types = c.Search
	case CapabilityImport:
		types = c.Import
	case CapabilityExport:
		types = c.Export
	}
	for _, t := range types {
		if t == mediaType {
			return true
		}
	}
	return false
}

// SearchOptions carries caller search parameters. Providers map what they
// can onto their API and ignore the rest.
type SearchOptions struct {
	Query  string
	SortBy string
	Limit  int
	NSFW   bool
}

// ErrUnsupported is returned by operations invoked for a media type the
// provider's config does not declare. A correct caller never sees it
// because it consults the registry config first.
var ErrUnsupported = errors.New("operation not supported by provider")

// Provider is the contract every tracking site adapter implements.
//
// Search and GetMedia never fail with an error: transport problems and
// non-2xx responses are reported through the boolean flag with an empty
// result, so one unreachable provider can't take down a caller that fans
// out across several. GetUser is the exception: its error must propagate
// so the caller knows not to mark the account as connected. ImportList
// returns the accumulated outcome of every merged page, and an error only
// when the remote fetch failed; pages already merged into the store before
// a mid-pagination failure stay committed and are reflected in the outcome.
type Provider interface {
	Info() ProviderInfo
	Config() ProviderConfig
	Search(ctx context.Context, mediaType MediaType, opts SearchOptions) ([]Media, bool)
	GetMedia(ctx context.Context, mediaType MediaType, id string) (*Media, bool)
	ImportList(ctx context.Context, mediaType MediaType, account *ExternalAccount, method ImportMethod) (ImportOutcome, error)
	GetUser(ctx context.Context, account *ExternalAccount) (UserData, error)
}
