package domain

import "fmt"

type ownerKind int

const (
	ownerNone ownerKind = iota
	ownerUser
	ownerGuest
)

// Owner identifies who a cart belongs to: a signed-in customer or an
// anonymous session, never both. The zero value means "unspecified".
type Owner struct {
	kind      ownerKind
	userID    int64
	sessionID string
}

// UserOwner builds an Owner for a signed-in customer.
func UserOwner(userID int64) Owner {
	return Owner{kind: ownerUser, userID: userID}
}

// GuestOwner builds an Owner for an anonymous session.
func GuestOwner(sessionID string) Owner {
	return Owner{kind: ownerGuest, sessionID: sessionID}
}

func (o Owner) IsZero() bool { return o.kind == ownerNone }

// UserID reports the customer id if this owner is a signed-in customer.
func (o Owner) UserID() (int64, bool) {
	return o.userID, o.kind == ownerUser
}

// SessionID reports the session id if this owner is an anonymous session.
func (o Owner) SessionID() (string, bool) {
	return o.sessionID, o.kind == ownerGuest
}

func (o Owner) String() string {
	switch o.kind {
	case ownerUser:
		return fmt.Sprintf("user:%d", o.userID)
	case ownerGuest:
		return fmt.Sprintf("session:%s", o.sessionID)
	default:
		return "none"
	}
}
