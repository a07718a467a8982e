package constants

import "fmt"

// Peran caller. Token hanya membawa flag is_staff; nama peran dipakai di log & pesan.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// Template pesan error role
const (
	ErrOnlyStaffCanAccess = "Forbidden: only staff can %s"
)

func RoleErrorStaff(action string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, action)
}

func RoleOf(isStaff bool) string {
	if isStaff {
		return RoleStaff
	}
	return RoleCustomer
}
