package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/hr-records/internal"
	companyDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/company"
	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetByEmail(ctx context.Context, email string) (*companyDatamodel.Company, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create maps a unique violation on email to ErrEmailAlreadyRegistered.
	Create(ctx context.Context, row *companyDatamodel.Company) error
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	bcryptCost     int
	publisher      events.Publisher
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, publisher events.Publisher, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		publisher:      publisher,
		logger:         logger,
	}
}

// Register creates a company account with a hashed password.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	email := NormalizedEmail(dto.Email)
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		s.logger.Error("failed to check company email", "error", err)
		return err
	}
	if exists {
		s.logger.Warn("company registration rejected: email taken", "email", email)
		return internal.ErrEmailAlreadyRegistered
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return internal.NewInternalError("failed to hash password", err)
	}

	row := &companyDatamodel.Company{
		ID:            uuid.New(),
		DisplayName:   strings.TrimSpace(dto.DisplayName),
		Email:         email,
		PasswordHash:  hash,
		EmployeeCount: dto.EmployeeCount,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, internal.ErrEmailAlreadyRegistered) {
			s.logger.Warn("company registration rejected: email taken", "email", email)
		} else {
			s.logger.Error("failed to create company", "error", err)
		}
		return err
	}

	if err := s.publisher.Publish(ctx, events.NewCompanyRegistered(row.ID, row.DisplayName)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventTypeCompanyRegistered, "error", err)
	}
	s.logger.Info("company registered", "company_id", row.ID)

	return nil
}

// Login checks the email first and the password second, so each failure
// keeps its own message.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByEmail(ctx, NormalizedEmail(dto.Email))
	if err != nil {
		if errors.Is(err, internal.ErrCompanyNotFound) {
			return nil, internal.ErrInvalidEmail
		}
		s.logger.Error("failed to load company for login", "error", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidPassword
	}

	token, err := s.tokenGenerator.GenerateAccessToken(row.ID, row.DisplayName, row.Email)
	if err != nil {
		s.logger.Error("failed to generate token", "company_id", row.ID, "error", err)
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	s.logger.Info("company logged in", "company_id", row.ID)

	return &LoginResponse{
		Token:       token,
		CompanyID:   row.ID.String(),
		ExpiresIn:   int(s.tokenGenerator.TTL().Seconds()),
		DisplayName: row.DisplayName,
	}, nil
}

// ValidateToken validates access token and returns claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}
