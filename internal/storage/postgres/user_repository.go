package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

const userColumns = `
	id, first_name, last_name, email, password_hash,
	phone_number, address, role, created_at, updated_at`

func (r *userRepository) Create(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, first_name, last_name, email, password_hash,
			phone_number, address, role, created_at, updated_at
		) VALUES ($1,$2,$3,LOWER($4),$5,$6,$7,$8,$9,$10)
	`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.PhoneNumber, user.Address, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(id string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT`+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(email string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT`+userColumns+` FROM users WHERE email = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return user, nil
}

// Update перезаписывает профильные поля; email и password_hash этим путём не меняются.
func (r *userRepository) Update(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET first_name = $2,
		    last_name = $3,
		    phone_number = $4,
		    address = $5,
		    updated_at = $6
		WHERE id = $1
	`,
		user.ID, user.FirstName, user.LastName, user.PhoneNumber, user.Address,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.PhoneNumber, &user.Address, &role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = domain.Role(role)
	return user, nil
}

var _ domain.UserRepository = (*userRepository)(nil)
