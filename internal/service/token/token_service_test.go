package token

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/models"
	"blogcore/internal/tokens"
)

func initTestService(t *testing.T) (*TokenService, *models.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	user := models.User{Username: "test_user", Email: "test@example.com", PasswordHash: "x", Role: core.RoleAuthor}
	require.NoError(t, db.Create(&user).Error)

	svc := &TokenService{DB: db, JWTSecret: []byte("access-secret"), RefreshSecret: []byte("refresh-secret")}
	return svc, &user
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc, user := initTestService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	subjectID, role, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, subjectID)
	require.Equal(t, core.RoleAuthor, role)

	// Both credentials carry an issue time.
	access, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	require.NotNil(t, access.IssuedAt)
	refresh, err := tokens.RefreshClaimsFromToken(pair.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)
	require.NotNil(t, refresh.IssuedAt)
}

func TestVerifyAccessRejectsGarbage(t *testing.T) {
	svc, _ := initTestService(t)

	_, _, err := svc.VerifyAccess("not-a-token")
	require.ErrorIs(t, err, core.ErrUnauthorized)

	other := &TokenService{DB: svc.DB, JWTSecret: []byte("other-secret"), RefreshSecret: svc.RefreshSecret}
	pair, err := other.Issue(context.Background(), &models.User{ID: 1, Role: core.RoleAuthor})
	require.NoError(t, err)
	_, _, err = svc.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestIssueOverwritesPriorRefresh(t *testing.T) {
	svc, user := initTestService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	var count int64
	require.NoError(t, svc.DB.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)

	// The superseded refresh token no longer rotates.
	_, err = svc.Rotate(ctx, first.RefreshToken)
	require.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = svc.Rotate(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRotateDetectsReuse(t *testing.T) {
	svc, user := initTestService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	rotated, err := svc.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token must fail.
	_, err = svc.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, core.ErrUnauthorized)

	// The rotated token is still good.
	_, err = svc.Rotate(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRevokeInvalidatesRotation(t *testing.T) {
	svc, user := initTestService(t)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, user.ID))

	_, err = svc.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, core.ErrUnauthorized)

	// Stateless access verification is unaffected by revocation.
	_, _, err = svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
}
