package domain

import (
	"errors"
	"fmt"
)

// Role enumerates the account roles known to the storefront.
type Role int

const (
	RoleGuest    Role = 0
	RoleCustomer Role = 1
	RoleManager  Role = 2
	RoleCourier  Role = 3
	RoleAdmin    Role = 4
)

var ErrUnknownRole = errors.New("role is not recognised")

// Capability is a named permission granted by a role.
type Capability string

const (
	CapabilityPlaceOrder     Capability = "place_order"
	CapabilityViewOwnOrders  Capability = "view_own_orders"
	CapabilityBrowseTables   Capability = "browse_tables"
	CapabilityEditProducts   Capability = "edit_products"
	CapabilityDeleteProducts Capability = "delete_products"
	CapabilityManageUsers    Capability = "manage_users"
	CapabilityLogout         Capability = "logout"
)

var roleCapabilities = map[Role][]Capability{
	RoleGuest:    nil,
	RoleCustomer: {CapabilityPlaceOrder, CapabilityViewOwnOrders, CapabilityLogout},
	RoleManager:  {CapabilityBrowseTables, CapabilityEditProducts, CapabilityLogout},
	RoleCourier:  {CapabilityLogout},
	RoleAdmin: {
		CapabilityBrowseTables,
		CapabilityEditProducts,
		CapabilityDeleteProducts,
		CapabilityManageUsers,
		CapabilityLogout,
	},
}

// ParseRole validates a numeric role id.
func ParseRole(id int) (Role, error) {
	role := Role(id)
	if _, ok := roleCapabilities[role]; !ok {
		return RoleGuest, fmt.Errorf("%w: %d", ErrUnknownRole, id)
	}
	return role, nil
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// Capabilities lists the capabilities granted by the role.
func (r Role) Capabilities() []Capability {
	granted := roleCapabilities[r]
	out := make([]Capability, len(granted))
	copy(out, granted)
	return out
}

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleCustomer:
		return "customer"
	case RoleManager:
		return "manager"
	case RoleCourier:
		return "courier"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// IsEmployeeRole reports whether accounts with this role are staff.
func (r Role) IsEmployeeRole() bool {
	return r == RoleManager || r == RoleCourier || r == RoleAdmin
}

// AllowedFor reports whether an account of kind may hold the role.
func (r Role) AllowedFor(kind AccountKind) bool {
	switch kind {
	case KindCustomer:
		return r == RoleCustomer
	case KindEmployee:
		return r.IsEmployeeRole()
	default:
		return false
	}
}

// CustomerOnly reports whether the capability acts on the customer's own orders.
func (c Capability) CustomerOnly() bool {
	return c == CapabilityPlaceOrder || c == CapabilityViewOwnOrders
}
