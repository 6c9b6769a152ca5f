package core

// Patch is the column set a transition writes. It is applied as one
// conditional update keyed by the resource's expected version, so a racing
// transition loses cleanly with ErrConflict instead of overwriting.
type Patch map[string]any

// Review is the admin status transition: any status is reachable from any
// other in one step. The publish axis is untouched.
func Review(newStatus string) (Patch, error) {
	st, err := ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}
	return Patch{"status": string(st)}, nil
}

// EditContent produces the patch for a content-field edit. A non-admin owner
// edit sends the resource back for re-review; an admin edit leaves the status
// where it is.
func EditContent(actor Subject, fields Patch) Patch {
	patch := Patch{}
	for k, v := range fields {
		patch[k] = v
	}
	if !actor.IsAdmin() {
		patch["status"] = string(StatusPending)
	}
	return patch
}

// SetPublish flips the publish axis only; the status axis is untouched.
func SetPublish(kind Kind, flag bool) (Patch, error) {
	if !kind.HasPublishAxis {
		return nil, ErrInvalidTransition
	}
	return Patch{"is_published": flag}, nil
}
