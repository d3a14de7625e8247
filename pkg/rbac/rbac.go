// Package rbac decides which parts of the portal a role may see and where a
// freshly signed-in user lands. Everything here is a pure function of the
// role; callers pass the role from the current session, never from the
// display profile.
package rbac

import "netsight/pkg/session"

// NavItem is a top-level portal navigation entry.
type NavItem string

const (
	NavAIOps     NavItem = "aiops"
	NavAwareness NavItem = "awareness"
	NavEcosystem NavItem = "ecosystem"
)

// NavItems lists every navigation entry in display order.
var NavItems = []NavItem{NavAIOps, NavAwareness, NavEcosystem}

// Title returns the label shown for a navigation entry.
func (n NavItem) Title() string {
	switch n {
	case NavAIOps:
		return "AIOps"
	case NavAwareness:
		return "Awareness"
	case NavEcosystem:
		return "Ecosystem"
	default:
		return string(n)
	}
}

// Page is a landing destination after login.
type Page string

const (
	PageHRDashboard Page = "hr-dashboard"
	PageITDashboard Page = "it-dashboard"
	PageAwareness   Page = "awareness"
)

// Visible reports whether item is shown to role. Roles other than admin and
// superuser get the end-user view, so an unresolved role never gains access.
func Visible(role session.Role, item NavItem) bool {
	switch role {
	case session.RoleAdmin:
		return true
	case session.RoleSuperuser:
		return item != NavAwareness
	default:
		return item == NavAwareness
	}
}

// VisibleItems returns the navigation entries shown to role, in display order.
func VisibleItems(role session.Role) []NavItem {
	items := make([]NavItem, 0, len(NavItems))
	for _, item := range NavItems {
		if Visible(role, item) {
			items = append(items, item)
		}
	}
	return items
}

// Landing returns where a user with role is sent after login.
func Landing(role session.Role) Page {
	switch role {
	case session.RoleHR:
		return PageHRDashboard
	case session.RoleIT, session.RoleAdmin:
		return PageITDashboard
	default:
		return PageAwareness
	}
}

// Banner returns the mode label shown in the header.
func Banner(role session.Role) string {
	switch role {
	case session.RoleAdmin:
		return "Administrator mode"
	case session.RoleSuperuser:
		return "Operator mode"
	default:
		return "End-user mode"
	}
}
