package core

import "time"

// AccessType controls who may open a visualization from the picker dialog.
type AccessType string

// Access type constants.
const (
	AccessTypePublic  AccessType = "public"
	AccessTypePrivate AccessType = "private"
	AccessTypeAdmin   AccessType = "admin"
)

// AccountType identifies the kind of account behind a session.
type AccountType string

// Account type constants. AccountTypeNone marks an unauthenticated session.
const (
	AccountTypeNone   AccountType = ""
	AccountTypeAdmin  AccountType = "admin"
	AccountTypeClient AccountType = "client"
)

// Account is the identity resolved from the current session.
type Account struct {
	ID   int64
	Type AccountType
}

// IsClient reports whether the account is a restricted client account.
func (a Account) IsClient() bool {
	return a.Type == AccountTypeClient
}

// Visualization is a saved chart/report definition attached to a form View.
// Rows are created and edited by the host platform; formviz reads, filters
// and cascade-deletes them.
type Visualization struct {
	ID            int64
	FormID        int64
	ViewID        int64
	AccessType    AccessType
	ExportGroupID int64
}

// ClientGrant links a client account to a private visualization's export group.
type ClientGrant struct {
	AccountID int64
	VisID     int64
}

// CacheEntry holds a precomputed visualization snapshot. At most one entry
// exists per visualization; replacement is delete-then-insert, never a
// partial update.
type CacheEntry struct {
	VisID      int64
	LastCached time.Time
	Data       []byte
}

// Form is a host-owned entity. Forms still being configured carry
// IsComplete=false and are omitted from every client-facing index.
type Form struct {
	ID         int64
	Name       string
	IsComplete bool
}

// View is a configured presentation of a form's submission data, host-owned.
type View struct {
	ID     int64
	FormID int64
	Name   string
}
