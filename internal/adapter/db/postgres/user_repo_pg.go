package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-resource-service/internal/domain/user"
	apperrors "user-resource-service/pkg/errors"
)

// UserRepoPG implements the user Repository interface on top of GORM.
// The same code serves PostgreSQL in production and SQLite in development.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"not null"`
	Email string    `gorm:"not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns a random identifier to rows inserted without one.
func (s *UserSchema) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s UserSchema) toDomain() user.User {
	return user.User{ID: s.ID, Name: s.Name, Email: s.Email}
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user and returns the generated identifier.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	if u == nil {
		return uuid.Nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err))
		return uuid.Nil, apperrors.NewInternalError("failed to create user", err)
	}

	r.log.Debug("user created in db", zap.Stringer("id", model.ID))
	return model.ID, nil
}

// List returns every user in storage order.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list users", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}

	return users, nil
}

// GetByID retrieves a user by identifier. A missing row yields a NotFoundError.
func (r *UserRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Stringer("id", id))
			return nil, notFound(id)
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Stringer("id", id))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	u := model.toDomain()
	return &u, nil
}

// Update writes only the columns set in patch and returns the row as stored
// afterwards. Columns absent from the patch are never written, so concurrent
// updates of different fields do not undo each other.
func (r *UserRepoPG) Update(ctx context.Context, id uuid.UUID, patch user.Patch) (*user.User, error) {
	changes := patchColumns(patch)
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}

	result := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(result.Error), zap.Stringer("id", id))
		return nil, apperrors.NewInternalError("failed to update user", result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Warn("user vanished before update", zap.Stringer("id", id))
		return nil, notFound(id)
	}

	r.log.Debug("user updated in db", zap.Stringer("id", id), zap.Int("columns", len(changes)))
	return r.GetByID(ctx, id)
}

func patchColumns(patch user.Patch) map[string]any {
	changes := make(map[string]any, 2)
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Email != nil {
		changes["email"] = *patch.Email
	}
	return changes
}

// Delete removes a user by identifier.
func (r *UserRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{})
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.Stringer("id", id))
		return apperrors.NewInternalError("failed to delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}

	r.log.Debug("user deleted in db", zap.Stringer("id", id))
	return nil
}

func notFound(id uuid.UUID) error {
	return apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
}
