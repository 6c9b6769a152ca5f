package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogcore/internal/core"
	"blogcore/internal/logging"
	"blogcore/internal/models"
	"blogcore/internal/tokens"
)

// TokenService issues, verifies and rotates the credential pair. Access
// tokens are stateless; the refresh token is stateful and only the latest
// issued one is accepted, which is what makes reuse of a superseded token
// detectable.
type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Issue creates a fresh pair and persists the refresh token as the sole
// valid one for the subject, overwriting whatever was stored before.
func (t *TokenService) Issue(ctx context.Context, user *models.User) (*Pair, error) {
	sub := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(tokens.AccessTTL)
	access, err := tokens.SignAccessToken(sub, user.Role, t.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refresh, jti, err := tokens.SignRefreshToken(sub, t.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	row := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(refresh),
		JTI:       jti,
		ExpiresAt: refreshExp,
	}
	err = t.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_hash", "jti", "expires_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &Pair{AccessToken: access, RefreshToken: refresh, AccessExp: accessExp, RefreshExp: refreshExp}, nil
}

// VerifyAccess checks signature and expiry only; no storage lookup.
func (t *TokenService) VerifyAccess(tokenStr string) (subjectID uint, role string, err error) {
	claims, err := tokens.AccessClaimsFromToken(tokenStr, t.JWTSecret)
	if err != nil {
		return 0, "", core.ErrUnauthorized
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", core.ErrUnauthorized
	}
	return uint(id), claims.Role, nil
}

// Rotate swaps the presented refresh token for a fresh pair. The check
// against the stored value and its replacement happen as one conditional
// update, so two racing rotations with the same token cannot both win.
func (t *TokenService) Rotate(ctx context.Context, rawRefresh string) (*Pair, error) {
	l := logging.FromContext(ctx).With("svc", "token.rotate")

	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, t.RefreshSecret)
	if err != nil {
		return nil, core.ErrUnauthorized
	}
	subjectID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, core.ErrUnauthorized
	}

	var user models.User
	if err := t.DB.WithContext(ctx).First(&user, uint(subjectID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, err
	}

	sub := claims.Subject
	accessExp := time.Now().Add(tokens.AccessTTL)
	access, err := tokens.SignAccessToken(sub, user.Role, t.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refresh, jti, err := tokens.SignRefreshToken(sub, t.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	res := t.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND token_hash = ?", uint(subjectID), tokens.Sha256Hex(rawRefresh)).
		Updates(map[string]any{
			"token_hash": tokens.Sha256Hex(refresh),
			"jti":        jti,
			"expires_at": refreshExp,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Superseded or revoked token presented. Treat as a reuse attempt.
		l.Warn("refresh token reuse rejected", "subject", subjectID)
		return nil, core.ErrUnauthorized
	}

	return &Pair{AccessToken: access, RefreshToken: refresh, AccessExp: accessExp, RefreshExp: refreshExp}, nil
}

// Revoke clears the stored refresh token so future rotations fail. Used on
// logout. Verify of still-live access tokens is unaffected.
func (t *TokenService) Revoke(ctx context.Context, subjectID uint) error {
	return t.DB.WithContext(ctx).
		Where("user_id = ?", subjectID).
		Delete(&models.RefreshToken{}).Error
}
