package store

// Store is an interface for managing users, boards and their contents,
// memberships, invites and notifications.
type Store interface {
	UserStore
	BoardStore
	ColumnStore
	CardStore
	MembershipStore
	InviteStore
	NotificationStore
}
