package lookup

import "itembuildup/internal/users"

// NavItem is one sidebar entry. UserType is the least privileged account type
// the entry is meant for.
type NavItem struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Path      string            `json:"path"`
	Icon      string            `json:"icon,omitempty"`
	UserType  users.AccountType `json:"user_type"`
	SortOrder int               `json:"sort_order"`
}

type Company struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DropdownOption is a value for one of the item form's select fields,
// grouped by DropdownName (e.g. "Category").
type DropdownOption struct {
	ID           int64  `json:"id"`
	DropdownName string `json:"dropdown_name"`
	Value        string `json:"value"`
	Label        string `json:"label"`
}

// Visible reports whether viewer's menu includes item.
//
//	super admin: everything
//	admin:       everything not reserved for super admins
//	employee:    employee entries only
func Visible(item NavItem, viewer users.AccountType) bool {
	switch viewer {
	case users.AccountSuperAdmin:
		return true
	case users.AccountAdmin:
		return item.UserType != users.AccountSuperAdmin
	case users.AccountEmployee:
		return item.UserType == users.AccountEmployee
	default:
		return false
	}
}
