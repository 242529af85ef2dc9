package middleware

import (
	"strings"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

// RouteClassifier maps request paths to access tiers. The lists are deployed
// configuration, fixed at construction and read-only at request time, so
// classification is safe under arbitrary request concurrency.
//
// Evaluation order is fixed: public first ("/" exact, prefix otherwise),
// then admin, then customer. A path matching no list is unclassified and
// therefore denied — default deny, never default allow.
type RouteClassifier struct {
	public   []string
	admin    []string
	customer []string
}

// NewRouteClassifier returns a classifier with the portal's standard lists.
func NewRouteClassifier() *RouteClassifier {
	return &RouteClassifier{
		public: []string{
			"/login",
			"/customer/login",
			"/auth/",
			"/static/",
			"/assets/",
			"/favicon.ico",
			"/health",
			"/metrics",
			"/swagger/",
		},
		admin: []string{
			"/dashboard",
			"/policies",
			"/claims",
			"/customers",
			"/documents",
			"/reports",
			"/master-data",
			"/api/",
		},
		customer: []string{
			"/customer/",
		},
	}
}

// NewRouteClassifierWithRules builds a classifier from explicit prefix lists.
func NewRouteClassifierWithRules(public, admin, customer []string) *RouteClassifier {
	return &RouteClassifier{public: public, admin: admin, customer: customer}
}

// Classify returns the tier for a request path.
func (rc *RouteClassifier) Classify(path string) domain.Tier {
	if path == "/" {
		return domain.TierPublic
	}
	if matchPrefix(rc.public, path) {
		return domain.TierPublic
	}
	if matchPrefix(rc.admin, path) {
		return domain.TierAdmin
	}
	if matchPrefix(rc.customer, path) {
		return domain.TierCustomer
	}
	return domain.TierUnclassified
}

func matchPrefix(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
