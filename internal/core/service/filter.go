package service

import (
	"strings"

	"github.com/licensehub/console-gateway/internal/core/domain"
)

// StatusAll disables status filtering.
const StatusAll = "all"

var partnerStatusFilters = map[string]domain.PartnerStatus{
	"active":    domain.PartnerActive,
	"suspended": domain.PartnerSuspended,
}

var licenseStatusFilters = map[string]string{
	"active":  domain.LicenseActive,
	"pending": domain.LicensePending,
}

// FilterPartners narrows partners by a search query and a status filter
// ("all", "active" or "suspended"). Name and email match case-insensitively;
// the phone number matches the raw query. An unknown status matches nothing.
func FilterPartners(partners []domain.Partner, query, status string) []domain.Partner {
	q := strings.ToLower(query)
	want, known := partnerStatusFilters[strings.ToLower(status)]

	out := make([]domain.Partner, 0, len(partners))
	for _, p := range partners {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.BusinessName), q) &&
			!strings.Contains(strings.ToLower(p.BusinessEmail), q) &&
			!strings.Contains(p.BusinessPhone, query) {
			continue
		}
		if !isAll(status) && (!known || p.Status != want) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterPlans narrows plans by name or description.
func FilterPlans(plans []domain.SubscriptionPlan, query string) []domain.SubscriptionPlan {
	q := strings.ToLower(query)
	out := make([]domain.SubscriptionPlan, 0, len(plans))
	for _, p := range plans {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.PlanName), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterLicenses narrows licenses by activation code, license id, partner
// name or device name, and by status ("all", "active" or "pending").
func FilterLicenses(licenses []domain.License, query, status string) []domain.License {
	q := strings.ToLower(query)
	want, known := licenseStatusFilters[strings.ToLower(status)]

	out := make([]domain.License, 0, len(licenses))
	for _, l := range licenses {
		if query != "" && !licenseMatches(l, q) {
			continue
		}
		if !isAll(status) && (!known || l.Status != want) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func licenseMatches(l domain.License, q string) bool {
	if strings.Contains(strings.ToLower(l.ActivationCode), q) ||
		strings.Contains(strings.ToLower(l.ID), q) ||
		strings.Contains(strings.ToLower(l.PartnerName), q) {
		return true
	}
	return l.DeviceName != nil && strings.Contains(strings.ToLower(*l.DeviceName), q)
}

func isAll(status string) bool {
	return status == "" || strings.EqualFold(status, StatusAll)
}

// PartnerStats counts partners per status.
type PartnerStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Suspended int `json:"suspended"`
}

// CountPartners summarises a partner list.
func CountPartners(partners []domain.Partner) PartnerStats {
	st := PartnerStats{Total: len(partners)}
	for _, p := range partners {
		switch p.Status {
		case domain.PartnerActive:
			st.Active++
		case domain.PartnerSuspended:
			st.Suspended++
		}
	}
	return st
}

// LicenseStats counts licenses per status.
type LicenseStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Pending int `json:"pending"`
}

// CountLicenses summarises a license list.
func CountLicenses(licenses []domain.License) LicenseStats {
	st := LicenseStats{Total: len(licenses)}
	for _, l := range licenses {
		switch l.Status {
		case domain.LicenseActive:
			st.Active++
		case domain.LicensePending:
			st.Pending++
		}
	}
	return st
}
