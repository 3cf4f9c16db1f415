package user

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-resource-service/internal/domain/user"
	apperrors "user-resource-service/pkg/errors"
	"user-resource-service/pkg/logger"
)

// Repository defines the interface for user data access operations.
// GetByID, Update and Delete report a missing row as *errors.NotFoundError.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (uuid.UUID, error)
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements the business logic for user management operations.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	repo Repository  // Repository for data access
	log  *zap.Logger // Logger for structured logging
}

// New creates a new Service backed by the given repository.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log}
}

// CreateUser inserts a new user and returns its generated identifier.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user")

	id, err := s.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return &CreateUserResponse{ID: id}, nil
}

// ListUsers returns all users in storage order.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, s.log)

	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(du)
	}

	log.Debug("listed users", zap.Int("count", len(users)))
	return &ListUsersResponse{Users: users}, nil
}

// UpdateUser applies the supplied fields to an existing user. Fields left
// nil in the request keep their stored value.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	log := logger.WithContext(ctx, s.log).With(zap.Stringer("id", in.ID))
	log.Info("updating user", zap.Bool("name_set", in.Name != nil), zap.Bool("email_set", in.Email != nil))

	if _, err := s.repo.GetByID(ctx, in.ID); err != nil {
		logLookupError(log, err)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, in.ID, domain.Patch{Name: in.Name, Email: in.Email})
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.Info("user vanished before update")
		} else {
			log.Error("failed to update user", zap.Error(err))
		}
		return nil, err
	}

	return &UpdateUserResponse{User: toDTO(*updated)}, nil
}

// DeleteUser removes an existing user.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, s.log).With(zap.Stringer("id", in.ID))
	log.Info("deleting user")

	if _, err := s.repo.GetByID(ctx, in.ID); err != nil {
		logLookupError(log, err)
		return nil, err
	}

	if err := s.repo.Delete(ctx, in.ID); err != nil {
		log.Error("failed to delete user", zap.Error(err))
		return nil, err
	}

	return &DeleteUserResponse{ID: in.ID}, nil
}

func logLookupError(log *zap.Logger, err error) {
	if apperrors.IsNotFound(err) {
		log.Info("user not found")
		return
	}
	log.Error("failed to look up user", zap.Error(err))
}

func toDTO(u domain.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email}
}
