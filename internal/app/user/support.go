package user

// SupportID is the reserved user id standing for "platform support". Non-admin users
// address support tickets to it; admins reply on its behalf.
const SupportID = "support-system-user-id-001"

// Display identity used wherever the support account is rendered.
const (
	SupportName   = "Admin Support"
	SupportAvatar = "https://ui-avatars.com/api/?name=Admin+Support&background=00c853&color=fff"
)

// IsSupport reports whether id is the support sentinel.
func IsSupport(id string) bool {
	return id == SupportID
}
