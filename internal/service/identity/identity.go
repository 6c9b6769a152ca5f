package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"blogcore/internal/core"
	"blogcore/internal/logging"
	"blogcore/internal/models"
)

// Resolver maps verified credentials to Subject records. Pure reads except
// for the explicit promotion hook.
type Resolver struct {
	DB *gorm.DB
}

// Resolve loads the role and minimal profile for a subject id. The password
// hash and stored refresh token never leave this package.
func (r *Resolver) Resolve(ctx context.Context, subjectID uint) (core.Subject, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return core.Subject{}, core.ErrNotFound
		}
		return core.Subject{}, err
	}
	return core.Subject{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// PromoteToAuthor is the post-creation hook: a reader becomes an author on
// their first content creation. Roles only ever escalate automatically, so
// the guard on the current role makes the call idempotent and a no-op for
// authors and admins.
func (r *Resolver) PromoteToAuthor(ctx context.Context, subjectID uint) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", subjectID, core.RoleReader).
		Update("role", core.RoleAuthor)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logging.FromContext(ctx).Info("promoted reader to author", "subject", subjectID)
	}
	return nil
}
