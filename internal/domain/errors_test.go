package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("submit: %w", Conflict("candidate is not awaiting an interview"))
	if KindOf(err) != KindConflict || !IsKind(err, KindConflict) {
		t.Fatalf("kind = %s", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatal("plain errors should be internal")
	}
	if IsKind(nil, KindInternal) {
		t.Fatal("nil error has no kind")
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	internal := NewError(KindInternal, "insert failed", errors.New("pq: connection refused"))
	if got := PublicMessage(internal); got != "internal error" {
		t.Fatalf("internal message = %q", got)
	}
	if got := PublicMessage(errors.New("raw")); got != "internal error" {
		t.Fatalf("raw message = %q", got)
	}
	if got := PublicMessage(NotFound("candidate not found")); got != "candidate not found" {
		t.Fatalf("not found message = %q", got)
	}
}

func TestParseRoleAcceptsRecruiter(t *testing.T) {
	r, err := ParseRole(" Recruiter ")
	if err != nil || r != RoleInterviewer {
		t.Fatalf("recruiter = %s, %v", r, err)
	}
	if _, err := ParseRole("owner"); !IsKind(err, KindInvalidArgument) {
		t.Fatalf("unknown role = %v", err)
	}
}
