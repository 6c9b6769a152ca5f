package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		require.Equal(t, Status(s), st)
	}

	for _, s := range []string{"", "published", "Approved", "deleted"} {
		_, err := ParseStatus(s)
		require.ErrorIs(t, err, ErrInvalidTransition, s)
	}
}

func TestPubliclyVisibleProductStates(t *testing.T) {
	yes, no := true, false

	// 3x2 product space for publish-axis kinds.
	require.True(t, PubliclyVisible(StatusApproved, &yes))
	require.False(t, PubliclyVisible(StatusApproved, &no))
	require.False(t, PubliclyVisible(StatusPending, &yes))
	require.False(t, PubliclyVisible(StatusPending, &no))
	require.False(t, PubliclyVisible(StatusRejected, &yes))
	require.False(t, PubliclyVisible(StatusRejected, &no))

	// Kinds without a publish axis only need approval.
	require.True(t, PubliclyVisible(StatusApproved, nil))
	require.False(t, PubliclyVisible(StatusPending, nil))
	require.False(t, PubliclyVisible(StatusRejected, nil))
}

func TestReview(t *testing.T) {
	patch, err := Review("rejected")
	require.NoError(t, err)
	require.Equal(t, Patch{"status": "rejected"}, patch)

	_, err = Review("banana")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEditContentResetsStatusForNonAdmin(t *testing.T) {
	owner := Subject{ID: 2, Role: RoleAuthor}
	patch := EditContent(owner, Patch{"title": "new"})
	require.Equal(t, "new", patch["title"])
	require.Equal(t, string(StatusPending), patch["status"])

	admin := Subject{ID: 1, Role: RoleAdmin}
	patch = EditContent(admin, Patch{"title": "new"})
	require.Equal(t, "new", patch["title"])
	_, hasStatus := patch["status"]
	require.False(t, hasStatus)
}

func TestEditContentDoesNotMutateInput(t *testing.T) {
	fields := Patch{"title": "x"}
	EditContent(Subject{ID: 2, Role: RoleAuthor}, fields)
	_, leaked := fields["status"]
	require.False(t, leaked)
}

func TestSetPublish(t *testing.T) {
	patch, err := SetPublish(KindBlog, false)
	require.NoError(t, err)
	require.Equal(t, Patch{"is_published": false}, patch)

	_, err = SetPublish(KindComment, true)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestKindByName(t *testing.T) {
	for _, name := range []string{"blog", "category", "comment"} {
		kind, err := KindByName(name)
		require.NoError(t, err)
		require.Equal(t, name, kind.Name)
	}
	_, err := KindByName("page")
	require.ErrorIs(t, err, ErrNotFound)
}
