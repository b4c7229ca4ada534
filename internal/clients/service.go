package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgdb "github.com/adolfosa/feria-manager/pkg/db"
	"github.com/adolfosa/feria-manager/pkg/db/models"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
)

// Service defines the client registry operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Client, error)
	Create(ctx context.Context, input CreateClientInput) (*models.Client, error)
	Update(ctx context.Context, input UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, userID, clientID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the client registry service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Client, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := NormalizeName(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	taken, err := s.repo.NameTaken(ctx, input.UserID, name, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a client with that name already exists")
	}

	client := &models.Client{
		UserID:  input.UserID,
		Name:    name,
		Phone:   normalizeOptional(input.Phone),
		Address: normalizeOptional(input.Address),
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "idx_clients_user_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a client with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateClientInput) (*models.Client, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := NormalizeName(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	client, err := s.repo.FindByID(ctx, input.UserID, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}

	taken, err := s.repo.NameTaken(ctx, input.UserID, name, client.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "another client with that name already exists")
	}

	client.Name = name
	client.Phone = normalizeOptional(input.Phone)
	client.Address = normalizeOptional(input.Address)

	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "idx_clients_user_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another client with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, clientID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Delete(ctx, userID, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
	}
	return nil
}

// NormalizeName lower-cases and trims a name for storage and uniqueness
// comparison. The rule is shared by clients and products.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := NormalizeName(*raw)
	if value == "" {
		return nil
	}
	return &value
}
