package repositories

import (
	"context"
	"sort"
	"sync"

	"clients_backend/internal/models"
)

// memoryClientRepository is a process-local ClientRepository for development
// and tests. It enforces the same unique constraints as the clients table.
type memoryClientRepository struct {
	mu      sync.RWMutex
	nextID  int64
	clients map[int64]models.Client
}

// NewMemoryClientRepository creates an empty in-memory ClientRepository.
func NewMemoryClientRepository() ClientRepository {
	return &memoryClientRepository{clients: make(map[int64]models.Client)}
}

// conflict must be called with mu held. Email is checked before username
// across all records.
func (r *memoryClientRepository) conflict(c *models.Client) error {
	for id, existing := range r.clients {
		if id != c.ID && existing.Email == c.Email {
			return &DuplicateKeyError{Field: "email", Constraint: constraintClientsEmail}
		}
	}
	for id, existing := range r.clients {
		if id != c.ID && existing.Username == c.Username {
			return &DuplicateKeyError{Field: "username", Constraint: constraintClientsUsername}
		}
	}
	return nil
}

func (r *memoryClientRepository) Save(_ context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client.ID = 0
	if err := r.conflict(client); err != nil {
		return err
	}
	r.nextID++
	today := models.Today()
	client.ID = r.nextID
	client.IsActive = true
	client.CreatedAt = today
	client.UpdatedAt = today
	r.clients[client.ID] = *client
	return nil
}

func (r *memoryClientRepository) Update(_ context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.clients[client.ID]
	if !ok {
		return ErrNotFound
	}
	if err := r.conflict(client); err != nil {
		return err
	}
	updated := *client
	updated.CreatedAt = stored.CreatedAt
	r.clients[client.ID] = updated
	return nil
}

func (r *memoryClientRepository) FindByID(_ context.Context, id int64) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryClientRepository) FindByUsername(_ context.Context, username string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.Username == username {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// sorted must be called with mu held.
func (r *memoryClientRepository) sorted() []models.Client {
	out := make([]models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryClientRepository) FindAll(_ context.Context) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

func (r *memoryClientRepository) FindAllPaged(_ context.Context, page, size int) ([]models.Client, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted()
	start, ok := pageBounds(page, size)
	if !ok || start >= len(all) {
		return []models.Client{}, 0, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *memoryClientRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *memoryClientRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.clients[id]
	return ok, nil
}
