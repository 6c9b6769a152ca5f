package identity

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/models"
)

func initTestResolver(t *testing.T) *Resolver {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return &Resolver{DB: db}
}

func TestResolve(t *testing.T) {
	r := initTestResolver(t)
	ctx := context.Background()

	user := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "secret", Role: core.RoleReader}
	require.NoError(t, r.DB.Create(&user).Error)

	subject, err := r.Resolve(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject.ID)
	require.Equal(t, "alice", subject.Username)
	require.Equal(t, core.RoleReader, subject.Role)

	_, err = r.Resolve(ctx, 999)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestPromoteToAuthorEscalatesOnly(t *testing.T) {
	r := initTestResolver(t)
	ctx := context.Background()

	reader := models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: core.RoleReader}
	admin := models.User{Username: "root", Email: "root@example.com", PasswordHash: "x", Role: core.RoleAdmin}
	require.NoError(t, r.DB.Create(&reader).Error)
	require.NoError(t, r.DB.Create(&admin).Error)

	require.NoError(t, r.PromoteToAuthor(ctx, reader.ID))
	subject, err := r.Resolve(ctx, reader.ID)
	require.NoError(t, err)
	require.Equal(t, core.RoleAuthor, subject.Role)

	// Idempotent for authors, never a demotion for admins.
	require.NoError(t, r.PromoteToAuthor(ctx, reader.ID))
	require.NoError(t, r.PromoteToAuthor(ctx, admin.ID))

	subject, err = r.Resolve(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, core.RoleAdmin, subject.Role)
}
