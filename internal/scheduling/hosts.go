package scheduling

import (
	"strings"
	"time"

	"bkhost/pkg/model"
)

// NeedsMechanic flags an eligible shift date that has no host able to do
// repairs. roles is keyed by lower-cased email. Never persisted.
func NeedsMechanic(day, now time.Time, e Eligibility, hosts []string, roles map[string]string) bool {
	if !e.IsEligible(day, now) {
		return false
	}
	for _, h := range hosts {
		switch roles[strings.ToLower(strings.TrimSpace(h))] {
		case model.RoleMechanic, model.RoleAdmin:
			return false
		}
	}
	return true
}
