package service

import (
	"net/url"
	"strings"

	"github.com/licensehub/console-gateway/internal/core/domain"
)

const (
	licenseCollectionPath = "/license"

	// DefaultLicenseTenantPath is the tenant-scoped license listing on the backend.
	DefaultLicenseTenantPath = "/license/partner/{id}"
)

// LicensePath picks the upstream license path for a caller:
//   - no role ("", "null", "unknown") or a platform admin gets the full collection;
//   - a partner or partner admin with a known tenant id gets the tenant path;
//   - every other combination falls back to the full collection.
func LicensePath(tenantTemplate, role, partnerID string) string {
	role = strings.TrimSpace(role)
	partnerID = strings.TrimSpace(partnerID)

	switch {
	case role == "" || role == "null" || role == "unknown":
		return licenseCollectionPath
	case strings.Contains(role, domain.RolePlatformAdmin):
		return licenseCollectionPath
	case isPartnerRole(role) && partnerID != "" && partnerID != "null":
		if tenantTemplate == "" {
			tenantTemplate = DefaultLicenseTenantPath
		}
		return strings.ReplaceAll(tenantTemplate, "{id}", url.PathEscape(partnerID))
	default:
		return licenseCollectionPath
	}
}

func isPartnerRole(role string) bool {
	return strings.Contains(role, domain.RolePartnerAdmin) || strings.Contains(role, domain.RolePartner)
}
