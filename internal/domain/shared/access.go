package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultBusinessDomain is assumed when a caller carries no explicit domain grants
const DefaultBusinessDomain = "WAREHOUSE"

// CallerContext carries the identity and business-domain grants of the
// current caller. It is built by the presentation boundary and passed
// explicitly into every use case; the domain never reads ambient state.
type CallerContext struct {
	UserID   uuid.UUID
	Username string
	guard    AccessGuard
}

// NewCallerContext creates a caller context with the given domain grants
func NewCallerContext(userID uuid.UUID, username string, allowedDomains []string) CallerContext {
	return CallerContext{
		UserID:   userID,
		Username: username,
		guard:    NewAccessGuard(allowedDomains),
	}
}

// EnsureAccess fails when the caller's grants exclude the business domain
func (c CallerContext) EnsureAccess(businessDomain string) error {
	return c.guard.EnsureAccess(businessDomain)
}

// AllowedDomains returns the ordered set of granted business domain codes
func (c CallerContext) AllowedDomains() []string {
	return c.guard.AllowedDomains()
}

// AccessGuard validates whether a caller may touch a given business domain.
// Domain codes are compared case-insensitively; order of the grants is
// preserved for domain-filtered listing queries.
type AccessGuard struct {
	allowed map[string]struct{}
	ordered []string
}

// NewAccessGuard creates a guard from the caller's allowed domain codes.
// Duplicates are dropped, order is kept. An empty grant set falls back to
// the default business domain.
func NewAccessGuard(allowedDomains []string) AccessGuard {
	if len(allowedDomains) == 0 {
		allowedDomains = []string{DefaultBusinessDomain}
	}
	allowed := make(map[string]struct{}, len(allowedDomains))
	ordered := make([]string, 0, len(allowedDomains))
	for _, domain := range allowedDomains {
		normalized := strings.ToUpper(strings.TrimSpace(domain))
		if normalized == "" {
			continue
		}
		if _, ok := allowed[normalized]; ok {
			continue
		}
		allowed[normalized] = struct{}{}
		ordered = append(ordered, normalized)
	}
	return AccessGuard{allowed: allowed, ordered: ordered}
}

// EnsureAccess returns a FORBIDDEN domain error when the domain is not granted
func (g AccessGuard) EnsureAccess(businessDomain string) error {
	normalized := strings.ToUpper(strings.TrimSpace(businessDomain))
	if _, ok := g.allowed[normalized]; !ok {
		return NewDomainError("FORBIDDEN", fmt.Sprintf("Access to business domain %s is forbidden", businessDomain))
	}
	return nil
}

// AllowedDomains returns the ordered, normalized domain codes
func (g AccessGuard) AllowedDomains() []string {
	out := make([]string, len(g.ordered))
	copy(out, g.ordered)
	return out
}
