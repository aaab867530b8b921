package cage

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/Amdragz/fiya/internal/auth"
	"github.com/Amdragz/fiya/internal/infrastructure/logging"
)

// UserDirectory is the slice of the auth store the cage service needs:
// confirming that the user provisioning a cage actually exists.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*auth.User, error)
}

// HistoryWriter records accepted sensor readings to a time-series
// backend. Implementations must not block the request path.
type HistoryWriter interface {
	Record(cageID, assignedMonitor string, readings *Readings)
}

// Service orchestrates cage provisioning and device-authenticated
// sensor updates.
type Service struct {
	repo    Repository
	creds   CredentialStore
	users   UserDirectory
	secrets *auth.SecretGenerator
	history HistoryWriter // optional
	logger  *logging.Logger
}

// NewService creates a cage service. history may be nil when no
// time-series backend is configured.
func NewService(repo Repository, creds CredentialStore, users UserDirectory, secrets *auth.SecretGenerator, history HistoryWriter, logger *logging.Logger) *Service {
	return &Service{
		repo:    repo,
		creds:   creds,
		users:   users,
		secrets: secrets,
		history: history,
		logger:  logger.With("component", "cage"),
	}
}

// Provision creates a cage together with its device credential.
//
// The returned ProvisionedCage carries the raw device secret — the only
// time it is ever disclosed. Cage and credential are written in one
// transaction: a duplicate cage id (ErrCageExists) or any other failure
// leaves neither row behind.
func (s *Service) Provision(ctx context.Context, userID string, input NewCage) (*ProvisionedCage, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	secret, verifier, err := s.secrets.Generate()
	if err != nil {
		return nil, err
	}

	cage := &Cage{
		ID:              input.CageID,
		AssignedMonitor: input.AssignedMonitor,
		LivestockNo:     input.LivestockNo,
		Temperature:     defaultTemperature,
		Timestamp:       time.Now().UTC(),
	}
	credential := &Credential{
		CageID:   cage.ID,
		Verifier: verifier,
	}

	if err := s.repo.CreateWithCredential(ctx, cage, credential); err != nil {
		return nil, err
	}

	s.logger.Info("cage provisioned", "cage_id", cage.ID, "assigned_monitor", cage.AssignedMonitor)
	return &ProvisionedCage{Cage: *cage, DeviceSecret: secret}, nil
}

// UpdateReadings stores a device's sensor update after verifying its
// secret.
//
// The stored verifier is re-derived from the presented secret and
// compared in constant time. A missing credential, a wrong secret, or a
// secret that belongs to a different cage all collapse to
// ErrSecretMismatch.
func (s *Service) UpdateReadings(ctx context.Context, cageID, presentedSecret string, readings *Readings) error {
	credential, err := s.creds.Get(ctx, cageID)
	if err != nil {
		return err
	}

	derived := s.secrets.HashIdentifier(presentedSecret)
	if subtle.ConstantTimeCompare([]byte(derived), []byte(credential.Verifier)) != 1 {
		return ErrSecretMismatch
	}

	if err := s.repo.UpdateReadings(ctx, cageID, readings); err != nil {
		return err
	}

	if s.history != nil {
		cage, err := s.repo.GetByID(ctx, cageID)
		if err != nil {
			return fmt.Errorf("loading cage for history: %w", err)
		}
		s.history.Record(cage.ID, cage.AssignedMonitor, readings)
	}

	return nil
}

// ListByMonitor returns all cages assigned to a monitoring unit.
func (s *Service) ListByMonitor(ctx context.Context, assignedMonitor string) ([]Cage, error) {
	return s.repo.ListByMonitor(ctx, assignedMonitor)
}

// GetByID returns a single cage.
func (s *Service) GetByID(ctx context.Context, id string) (*Cage, error) {
	return s.repo.GetByID(ctx, id)
}
