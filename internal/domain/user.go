package domain

// Role determines what a user may do; it is fixed by configuration.
type Role string

const (
	// RoleRegular is an ordinary marketplace user.
	RoleRegular Role = "regular"
	// RoleAdministrator may moderate listings and browse the full feed.
	RoleAdministrator Role = "administrator"
)

// Mode is the session-local operating mode of an administrator.
// Administrators can act as regular users to test the submission flow.
type Mode string

const (
	// ModeAdmin shows the moderation keyboard and admin views.
	ModeAdmin Mode = "admin"
	// ModeUser makes an administrator see the regular keyboard.
	ModeUser Mode = "acting-as-regular"
)

// User is a marketplace participant, created on first contact.
type User struct {
	TelegramID int64
	Username   string
	FullName   string
	Role       Role
}
