package services

import (
	"context"
	"errors"
	"fmt"

	"clients_backend/internal/cache"
	"clients_backend/internal/models"
	"clients_backend/internal/repositories"
	"clients_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientInactive = errors.New("client is inactive")
)

const emptyListMsg = "the list of clients is empty"

// --- ClientService Interface ---
// Lookups never return a nil client without an error: absence is always
// reported as ErrClientNotFound, and so is an empty list.
type ClientService interface {
	Save(ctx context.Context, req models.ClientRequest) (*models.Client, error)
	UpdateByID(ctx context.Context, id int64, req models.ClientRequest) (*models.Client, error)
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	FindByCredentials(ctx context.Context, username, password string) (*models.Client, error)
	ActivateAndDeactivateByID(ctx context.Context, id int64) (*models.Client, error)
	FindAll(ctx context.Context) ([]models.Client, error)
	FindAllPaged(ctx context.Context, page, size int) (*models.ClientPage, error)
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// ClientServiceOption configures a ClientService.
type ClientServiceOption func(*clientService)

// WithPasswordCost sets the bcrypt cost used for password hashes.
func WithPasswordCost(cost int) ClientServiceOption {
	return func(s *clientService) {
		s.passwordCost = cost
	}
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo   repositories.ClientRepository
	cache        cache.Cache
	passwordCost int
}

// NewClientService creates a new instance of ClientService. A nil cache
// disables caching.
func NewClientService(repo repositories.ClientRepository, c cache.Cache, opts ...ClientServiceOption) ClientService {
	if c == nil {
		c = cache.Noop{}
	}
	s := &clientService{
		clientRepo:   repo,
		cache:        c,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func notFoundByID(id int64) error {
	return fmt.Errorf("%w: the client with id %d does not exist", ErrClientNotFound, id)
}

func notFoundByUsername(username string) error {
	return fmt.Errorf("%w: no client matches username %s and the given password", ErrClientNotFound, username)
}

func (s *clientService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// loadForWrite reads the stored record directly from the repository.
func (s *clientService) loadForWrite(ctx context.Context, id int64) (*models.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundByID(id)
		}
		return nil, fmt.Errorf("failed to load client %d: %w", id, err)
	}
	return client, nil
}

func (s *clientService) cachePut(ctx context.Context, client *models.Client) {
	if err := s.cache.Put(ctx, cache.IDKey(client.ID), client); err != nil {
		utils.LogWarn(err, "client cache put by id failed")
	}
	if err := s.cache.Put(ctx, cache.UsernameKey(client.Username), client); err != nil {
		utils.LogWarn(err, "client cache put by username failed")
	}
}

func (s *clientService) cacheInvalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		utils.LogWarn(err, "client cache invalidation failed")
	}
}

func (s *clientService) Save(ctx context.Context, req models.ClientRequest) (*models.Client, error) {
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	client := &models.Client{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	s.cachePut(ctx, client)

	utils.LogInfo("Client saved", map[string]interface{}{"client_id": client.ID, "username": client.Username})
	return client, nil
}

func (s *clientService) UpdateByID(ctx context.Context, id int64, req models.ClientRequest) (*models.Client, error) {
	client, err := s.loadForWrite(ctx, id)
	if err != nil {
		return nil, err
	}
	previousUsername := client.Username

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	client.Email = req.Email
	client.Username = req.Username
	client.PasswordHash = hash
	client.FirstName = req.FirstName
	client.MiddleName = req.MiddleName
	client.LastName = req.LastName
	client.UpdatedAt = models.Today()
	if client.UpdatedAt.Before(client.CreatedAt) {
		client.UpdatedAt = client.CreatedAt
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, err
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundByID(id)
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	if previousUsername != client.Username {
		s.cacheInvalidate(ctx, cache.UsernameKey(previousUsername))
	}
	s.cachePut(ctx, client)

	utils.LogInfo("Client updated", map[string]interface{}{"client_id": id, "username": client.Username})
	return client, nil
}

func (s *clientService) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	if client, err := s.cache.Get(ctx, cache.IDKey(id)); err == nil {
		utils.LogDebug("client cache hit", map[string]interface{}{"client_id": id})
		return client, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		utils.LogWarn(err, "client cache get by id failed")
	}

	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundByID(id)
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	s.cachePut(ctx, client)
	return client, nil
}

// FindByCredentials returns the client whose username matches exactly and
// whose stored hash accepts password. A wrong password is indistinguishable
// from an unknown username.
func (s *clientService) FindByCredentials(ctx context.Context, username, password string) (*models.Client, error) {
	client, err := s.cache.Get(ctx, cache.UsernameKey(username))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			utils.LogWarn(err, "client cache get by username failed")
		}
		client, err = s.clientRepo.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, notFoundByUsername(username)
			}
			return nil, fmt.Errorf("failed to get client by username: %w", err)
		}
		s.cachePut(ctx, client)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)); err != nil {
		return nil, notFoundByUsername(username)
	}
	return client, nil
}

func (s *clientService) ActivateAndDeactivateByID(ctx context.Context, id int64) (*models.Client, error) {
	client, err := s.loadForWrite(ctx, id)
	if err != nil {
		return nil, err
	}
	client.IsActive = !client.IsActive

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundByID(id)
		}
		return nil, fmt.Errorf("failed to toggle client: %w", err)
	}
	s.cachePut(ctx, client)

	utils.LogInfo("Client active flag toggled", map[string]interface{}{"client_id": id, "is_active": client.IsActive})
	return client, nil
}

func (s *clientService) FindAll(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, emptyListMsg)
	}
	return clients, nil
}

func (s *clientService) FindAllPaged(ctx context.Context, page, size int) (*models.ClientPage, error) {
	clients, total, err := s.clientRepo.FindAllPaged(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to get client page: %w", err)
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, emptyListMsg)
	}
	return &models.ClientPage{Clients: clients, Total: total, Page: page, Size: size}, nil
}

func (s *clientService) DeleteByID(ctx context.Context, id int64) error {
	client, err := s.loadForWrite(ctx, id)
	if err != nil {
		return err
	}

	if err := s.clientRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundByID(id)
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.cacheInvalidate(ctx, cache.IDKey(id), cache.UsernameKey(client.Username))

	utils.LogInfo("Client deleted", map[string]interface{}{"client_id": id, "username": client.Username})
	return nil
}

func (s *clientService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if _, err := s.cache.Get(ctx, cache.IDKey(id)); err == nil {
		return true, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		utils.LogWarn(err, "client cache get by id failed")
	}
	exists, err := s.clientRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check client existence: %w", err)
	}
	return exists, nil
}
