package model

// Role codes. A user holds exactly one.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// RoleInfo describes a role for the roles endpoint
type RoleInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultRoles defines the roles available in the system
var DefaultRoles = []RoleInfo{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access including users and settings",
	},
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Catalog, suppliers, purchases and inventory management",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Point of sale and customer lookup",
	},
}

// IsValidRole reports whether code is one of the known role codes
func IsValidRole(code string) bool {
	for _, r := range DefaultRoles {
		if r.Code == code {
			return true
		}
	}
	return false
}
