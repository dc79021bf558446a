package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"clients_backend/internal/models"
)

const clientColumns = `id, first_name, middle_name, last_name, email, username, password_hash, is_active, created_at, updated_at`

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	Save(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	FindByUsername(ctx context.Context, username string) (*models.Client, error)
	FindAll(ctx context.Context) ([]models.Client, error)
	FindAllPaged(ctx context.Context, page, size int) ([]models.Client, int, error) // clients, total count, error
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type clientRepository struct {
	db SQLExecutor
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db SQLExecutor) ClientRepository {
	return &clientRepository{db: db}
}

// pageBounds returns the row offset of a zero-based page. ok is false when
// the page lies beyond any addressable row.
func pageBounds(page, size int) (offset int, ok bool) {
	if page < 0 || size <= 0 || page > (math.MaxInt-size)/size {
		return 0, false
	}
	return page * size, true
}

func scanClient(s scanner, client *models.Client, extra ...interface{}) error {
	dest := []interface{}{
		&client.ID, &client.FirstName, &client.MiddleName, &client.LastName,
		&client.Email, &client.Username, &client.PasswordHash, &client.IsActive,
		&client.CreatedAt, &client.UpdatedAt,
	}
	return s.Scan(append(dest, extra...)...)
}

// Save inserts a new client. The store assigns the id; the client starts
// active and both dates are stamped with today's date.
func (r *clientRepository) Save(ctx context.Context, client *models.Client) error {
	query := `INSERT INTO clients (first_name, middle_name, last_name, email, username, password_hash, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
	          RETURNING id`

	today := models.Today()
	client.IsActive = true
	client.CreatedAt = today
	client.UpdatedAt = today

	err := r.db.QueryRowContext(ctx, query,
		client.FirstName, client.MiddleName, client.LastName, client.Email,
		client.Username, client.PasswordHash, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return translateWriteError(err, "creating client")
	}
	return nil
}

// Update overwrites every mutable column of an existing client.
// created_at is never written.
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `UPDATE clients SET
	            first_name = $1, middle_name = $2, last_name = $3, email = $4,
	            username = $5, password_hash = $6, is_active = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		client.FirstName, client.MiddleName, client.LastName, client.Email,
		client.Username, client.PasswordHash, client.IsActive, client.UpdatedAt, client.ID,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a client by its ID.
func (r *clientRepository) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	if err := scanClient(r.db.QueryRowContext(ctx, query, id), client); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// FindByUsername retrieves a client by its unique username.
func (r *clientRepository) FindByUsername(ctx context.Context, username string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE username = $1`

	if err := scanClient(r.db.QueryRowContext(ctx, query, username), client); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by username %s: %v", ErrDatabaseError, username, err)
	}
	return client, nil
}

// FindAll retrieves every client ordered by id.
func (r *clientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var client models.Client
		if err := scanClient(rows, &client); err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// FindAllPaged retrieves one zero-based page of clients ordered by id,
// along with the total number of clients.
func (r *clientRepository) FindAllPaged(ctx context.Context, page, size int) ([]models.Client, int, error) {
	query := `SELECT ` + clientColumns + `, COUNT(*) OVER() AS total_count
	          FROM clients ORDER BY id ASC LIMIT $1 OFFSET $2`

	offset, ok := pageBounds(page, size)
	if !ok {
		return []models.Client{}, 0, nil
	}

	rows, err := r.db.QueryContext(ctx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying client page %d: %v", ErrDatabaseError, page, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	totalCount := 0
	for rows.Next() {
		var client models.Client
		if err := scanClient(rows, &client, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	// An out-of-range page has no rows to carry the window count.
	return clients, totalCount, nil
}

// DeleteByID removes a client from the database.
func (r *clientRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM clients WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsByID reports whether a client with the given id is stored.
func (r *clientRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking client ID %d: %v", ErrDatabaseError, id, err)
	}
	return exists, nil
}
