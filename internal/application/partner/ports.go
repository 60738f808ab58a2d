package partner

import "context"

// ResolvedQuoteInvalidator drops cached quote resolutions for a business
// domain. Group membership changes move customers between pricing scopes,
// so every cached resolution in the domain may be stale afterwards.
type ResolvedQuoteInvalidator interface {
	InvalidateDomain(ctx context.Context, businessDomain string)
}
