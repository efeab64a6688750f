package postgres

import (
	"context"
	"database/sql"

	"ambulance/internal/domain"
)

// ContactRepository is a PostgreSQL implementation of repository.ContactRepository.
type ContactRepository struct {
	q Querier
}

// NewContactRepository creates a new PostgreSQL contact repository.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{q: db}
}

// NewContactRepositoryWithTx creates a contact repository using a transaction.
func NewContactRepositoryWithTx(tx *sql.Tx) *ContactRepository {
	return &ContactRepository{q: tx}
}

const contactColumns = `id, owner_id, name, phone, relationship, notes, is_primary, created_at, updated_at`

// Create adds a new contact.
func (r *ContactRepository) Create(ctx context.Context, c *domain.EmergencyContact) error {
	query := `INSERT INTO emergency_contacts (` + contactColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.Name, c.Phone, c.Relationship, nullString(c.Notes), c.IsPrimary, c.CreatedAt, c.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves one of the owner's contacts.
func (r *ContactRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.EmergencyContact, error) {
	query := `SELECT ` + contactColumns + ` FROM emergency_contacts WHERE owner_id = $1 AND id = $2`
	c, err := scanContact(r.q.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// ListByOwner retrieves the owner's contacts, primary first.
func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.EmergencyContact, error) {
	query := `SELECT ` + contactColumns + ` FROM emergency_contacts WHERE owner_id = $1 ORDER BY is_primary DESC, created_at`
	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.EmergencyContact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Update replaces the editable fields. Primary status is changed only by SetPrimary.
func (r *ContactRepository) Update(ctx context.Context, c *domain.EmergencyContact) error {
	query := `
		UPDATE emergency_contacts
		SET name = $1, phone = $2, relationship = $3, notes = $4, updated_at = $5
		WHERE owner_id = $6 AND id = $7
	`
	result, err := r.q.ExecContext(ctx, query,
		c.Name, c.Phone, c.Relationship, nullString(c.Notes), c.UpdatedAt, c.OwnerID, c.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result)
}

// Delete removes a contact.
func (r *ContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM emergency_contacts WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// SetPrimary clears the owner's current primary and marks id. Run it on a
// transaction-scoped repository: the partial unique index on (owner_id) WHERE
// is_primary rejects a second primary, so the clear has to land first.
func (r *ContactRepository) SetPrimary(ctx context.Context, ownerID, id string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE emergency_contacts SET is_primary = FALSE, updated_at = NOW() WHERE owner_id = $1 AND is_primary AND id <> $2`,
		ownerID, id,
	)
	if err != nil {
		return mapError(err)
	}

	result, err := r.q.ExecContext(ctx,
		`UPDATE emergency_contacts SET is_primary = TRUE, updated_at = NOW() WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result)
}

func scanContact(row rowScanner) (*domain.EmergencyContact, error) {
	var c domain.EmergencyContact
	var notes sql.NullString
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.Relationship, &notes, &c.IsPrimary, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Notes = notes.String
	return &c, nil
}
