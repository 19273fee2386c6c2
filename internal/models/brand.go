package models

import "time"

// Brand is a tenant on the dashboard. A brand is reachable on its assigned
// website domain and, once verified, on an optional custom domain.
type Brand struct {
	ID               string
	Name             string
	Slug             string
	WebsiteDomain    string
	CustomDomain     *string
	DomainVerified   bool
	DomainVerifiedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
