package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ambulance/internal/domain"
	"ambulance/internal/repository"
	"ambulance/internal/repository/postgres"
)

// ContactService handles emergency contact operations.
type ContactService struct {
	contactRepo         repository.ContactRepository
	notificationService *NotificationService
	log                 *zap.Logger
	now                 func() time.Time

	// inTx runs fn against a repository bound to one transaction.
	inTx func(ctx context.Context, fn func(repo repository.ContactRepository) error) error
}

// NewContactService creates a new ContactService. With a nil db, writes that
// touch the primary flag run without a surrounding transaction.
func NewContactService(
	db *sql.DB,
	contactRepo repository.ContactRepository,
	notificationService *NotificationService,
	log *zap.Logger,
) *ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ContactService{
		contactRepo:         contactRepo,
		notificationService: notificationService,
		log:                 log,
		now:                 time.Now,
	}
	s.inTx = func(ctx context.Context, fn func(repository.ContactRepository) error) error {
		return fn(contactRepo)
	}
	if db != nil {
		s.inTx = func(ctx context.Context, fn func(repository.ContactRepository) error) (err error) {
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}

			defer func() {
				if err != nil {
					_ = tx.Rollback()
				}
			}()

			if err = fn(postgres.NewContactRepositoryWithTx(tx)); err != nil {
				return err
			}
			return tx.Commit()
		}
	}
	return s
}

// ContactRequest contains the editable fields of a contact.
type ContactRequest struct {
	Name         string
	Phone        string
	Relationship string
	Notes        string
	IsPrimary    bool
}

func (r ContactRequest) validate() (domain.Relationship, error) {
	rel, ok := domain.ParseRelationship(strings.ToLower(strings.TrimSpace(r.Relationship)))
	if !ok {
		return "", ErrInvalidRelationship
	}
	return rel, nil
}

// List returns the owner's contacts, primary first.
func (s *ContactService) List(ctx context.Context, ownerID string) ([]*domain.EmergencyContact, error) {
	if ownerID == "" {
		return nil, ErrInvalidIdentity
	}
	contacts, err := s.contactRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []*domain.EmergencyContact{}
	}
	return contacts, nil
}

// Create adds a contact. A contact created as primary replaces the previous primary.
func (s *ContactService) Create(ctx context.Context, ownerID string, req ContactRequest) (*domain.EmergencyContact, error) {
	if ownerID == "" {
		return nil, ErrInvalidIdentity
	}
	rel, err := req.validate()
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &domain.EmergencyContact{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Relationship: rel,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.inTx(ctx, func(repo repository.ContactRepository) error {
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		if req.IsPrimary {
			return repo.SetPrimary(ctx, ownerID, c.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.IsPrimary {
		c.IsPrimary = true
		s.notifyPrimary(ctx, ownerID, c)
	}
	return c, nil
}

// Update replaces a contact's fields. Setting IsPrimary promotes it; clearing
// it has no effect, the primary is only ever moved.
func (s *ContactService) Update(ctx context.Context, ownerID, id string, req ContactRequest) (*domain.EmergencyContact, error) {
	if ownerID == "" {
		return nil, ErrInvalidIdentity
	}
	if id == "" {
		return nil, ErrInvalidContactID
	}
	rel, err := req.validate()
	if err != nil {
		return nil, err
	}

	var updated *domain.EmergencyContact
	promoted := false
	err = s.inTx(ctx, func(repo repository.ContactRepository) error {
		c, err := repo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		c.Name = strings.TrimSpace(req.Name)
		c.Phone = req.Phone
		c.Relationship = rel
		c.Notes = strings.TrimSpace(req.Notes)
		c.UpdatedAt = s.now()
		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		if req.IsPrimary && !c.IsPrimary {
			if err := repo.SetPrimary(ctx, ownerID, id); err != nil {
				return err
			}
			c.IsPrimary = true
			promoted = true
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if promoted {
		s.notifyPrimary(ctx, ownerID, updated)
	}
	return updated, nil
}

// Delete removes a contact.
func (s *ContactService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return ErrInvalidIdentity
	}
	if id == "" {
		return ErrInvalidContactID
	}
	return s.contactRepo.Delete(ctx, ownerID, id)
}

// SetPrimary makes id the owner's only primary contact and returns the full list.
func (s *ContactService) SetPrimary(ctx context.Context, ownerID, id string) ([]*domain.EmergencyContact, error) {
	if ownerID == "" {
		return nil, ErrInvalidIdentity
	}
	if id == "" {
		return nil, ErrInvalidContactID
	}

	err := s.inTx(ctx, func(repo repository.ContactRepository) error {
		return repo.SetPrimary(ctx, ownerID, id)
	})
	if err != nil {
		return nil, err
	}

	contacts, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		if c.ID == id {
			s.notifyPrimary(ctx, ownerID, c)
		}
	}
	return contacts, nil
}

func (s *ContactService) notifyPrimary(ctx context.Context, ownerID string, c *domain.EmergencyContact) {
	if s.notificationService != nil {
		_ = s.notificationService.NotifyPrimaryContactChanged(ctx, ownerID, c)
	}
}
