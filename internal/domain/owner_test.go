package domain

import "testing"

func TestOwnerKinds(t *testing.T) {
	var zero Owner
	if !zero.IsZero() {
		t.Error("zero Owner should report IsZero")
	}
	if _, ok := zero.UserID(); ok {
		t.Error("zero Owner should have no user id")
	}
	if _, ok := zero.SessionID(); ok {
		t.Error("zero Owner should have no session id")
	}
	if zero.String() != "none" {
		t.Errorf("expected none, got %q", zero.String())
	}

	user := UserOwner(42)
	if user.IsZero() {
		t.Error("user Owner should not be zero")
	}
	if id, ok := user.UserID(); !ok || id != 42 {
		t.Errorf("expected user 42, got %d %v", id, ok)
	}
	if _, ok := user.SessionID(); ok {
		t.Error("user Owner should have no session id")
	}
	if user.String() != "user:42" {
		t.Errorf("expected user:42, got %q", user.String())
	}

	guest := GuestOwner("sess-1")
	if sid, ok := guest.SessionID(); !ok || sid != "sess-1" {
		t.Errorf("expected session sess-1, got %q %v", sid, ok)
	}
	if _, ok := guest.UserID(); ok {
		t.Error("guest Owner should have no user id")
	}
	if guest.String() != "session:sess-1" {
		t.Errorf("expected session:sess-1, got %q", guest.String())
	}
}
