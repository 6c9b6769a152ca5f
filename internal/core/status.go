package core

import "fmt"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("status %q: %w", s, ErrInvalidTransition)
}

// PubliclyVisible is the single visibility predicate for all public list and
// read paths: moderation must have approved the resource, and where the kind
// has a publish axis the owner must have it switched on. Owners and admins
// bypass this and see the resource in any state.
func PubliclyVisible(status Status, published *bool) bool {
	if status != StatusApproved {
		return false
	}
	return published == nil || *published
}
