package memory

import (
	"strings"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// userRepositoryInMemory — простая in-memory реализация UserRepository.
type userRepositoryInMemory struct {
	store *Store
}

// NewUserRepository возвращает in-memory репозиторий пользователей.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepositoryInMemory{store: store}
}

// Create сохраняет пользователя, если email ещё не занят.
func (r *userRepositoryInMemory) Create(user domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := s.emails[email]; taken {
		return domain.ErrEmailTaken
	}
	s.users[user.ID] = user
	s.emails[email] = user.ID
	return nil
}

// Get возвращает пользователя или ErrUserNotFound.
func (r *userRepositoryInMemory) Get(id string) (domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *userRepositoryInMemory) GetByEmail(email string) (domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

// Update перезаписывает профильные поля пользователя; email неизменяем.
func (r *userRepositoryInMemory) Update(user domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.PhoneNumber = user.PhoneNumber
	current.Address = user.Address
	current.UpdatedAt = user.UpdatedAt
	s.users[user.ID] = current
	return nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
