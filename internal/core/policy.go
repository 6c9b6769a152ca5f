package core

const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleReader = "reader"
)

// Subject is an authenticated identity. The zero ID means "no caller".
type Subject struct {
	ID       uint
	Username string
	Role     string
}

func (s Subject) IsAdmin() bool { return s.Role == RoleAdmin }

type Action string

const (
	ActionCreate        Action = "create"
	ActionEditFields    Action = "edit-fields"
	ActionTogglePublish Action = "toggle-publish"
	ActionSetStatus     Action = "set-status"
	ActionDelete        Action = "delete"
)

// Authorize decides whether subject may perform action on the resource whose
// ownership snapshot is res. The role check runs first: an admin is allowed
// without any ownership comparison. Ownership is compared on normalized
// numeric ids, never on transport strings.
//
//	action          admin  owner  other
//	create          allow  allow  allow (any authenticated subject)
//	edit-fields     allow  allow  deny
//	toggle-publish  allow  allow  deny
//	set-status      allow  deny   deny
//	delete          allow  allow  deny
func Authorize(subject Subject, action Action, res Ownership) error {
	if subject.ID == 0 {
		return ErrUnauthorized
	}
	if subject.IsAdmin() {
		return nil
	}

	switch action {
	case ActionCreate:
		return nil
	case ActionEditFields, ActionTogglePublish, ActionDelete:
		if subject.ID == res.OwnerID {
			return nil
		}
		return ErrForbidden
	case ActionSetStatus:
		return ErrForbidden
	}
	return ErrForbidden
}
