package engine

import (
	"bytes"

	"github.com/finbotd/finbot/internal/core"
)

// Representative-selection policies. The representative is re-picked every
// cycle; its probe results stand in for system-wide status.
const (
	PolicyAdminFirst         = "admin_first"
	PolicyServiceAccountOnly = "service_account_only"
)

// pickRepresentative chooses this cycle's representative tenant, or nil when
// no tenant qualifies. Under admin_first, admins with settings win, tie-broken
// by the service-account flag and then by id ascending; tenants flagged as
// the service account are the fallback either way.
func pickRepresentative(tenants []core.Tenant, policy string) *core.Tenant {
	if policy != PolicyServiceAccountOnly {
		var best *core.Tenant
		for i := range tenants {
			t := &tenants[i]
			if !t.IsAdmin || !t.HasSettings {
				continue
			}
			if best == nil || preferred(t, best) {
				best = t
			}
		}
		if best != nil {
			return best
		}
	}

	var svc *core.Tenant
	for i := range tenants {
		t := &tenants[i]
		if !t.IsService {
			continue
		}
		if svc == nil || bytes.Compare(t.ID[:], svc.ID[:]) < 0 {
			svc = t
		}
	}
	return svc
}

func preferred(a, b *core.Tenant) bool {
	if a.IsService != b.IsService {
		return a.IsService
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
