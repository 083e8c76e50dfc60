// internal/core/domain/permissions.go
package domain

import "errors"

// ErrNotAllowed is returned when a mutating action is invoked by a role that
// lacks the required capability. It is raised before any network call.
var ErrNotAllowed = errors.New("not allowed")

// Role identifies the dashboard user's role. It is injected configuration,
// not derived from a credential.
type Role string

// Role constants
const (
	RoleAdmin     Role = "admin"
	RoleInventory Role = "inventory"
)

// Capabilities is the set of permissions derived from a role
type Capabilities struct {
	ManageUsers         bool
	ViewReports         bool
	CrudShoes           bool
	CrudSuppliers       bool
	AddEditTransactions bool
	DeleteTransactions  bool
	DeleteMasterData    bool
	CrudPurchases       bool
}

// CapabilitiesFor derives the capability set for a role. An unset or unknown
// role is treated as inventory.
func CapabilitiesFor(role Role) Capabilities {
	if role != RoleAdmin {
		role = RoleInventory
	}
	admin := role == RoleAdmin

	return Capabilities{
		ManageUsers:         admin,
		ViewReports:         true,
		CrudShoes:           true,
		CrudSuppliers:       true,
		AddEditTransactions: true,
		DeleteTransactions:  admin,
		DeleteMasterData:    admin,
		CrudPurchases:       admin,
	}
}
