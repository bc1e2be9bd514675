package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	minPasswordLen  = 6
	defaultTokenTTL = 24 * time.Hour
)

// Service реализует регистрацию, вход и проверку JWT-токенов.
type Service struct {
	users    domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *log.Entry
	now      func() time.Time
}

// NewService создаёт сервис аутентификации. Секрет подписи обязателен.
func NewService(users domain.UserRepository, secret string, tokenTTL time.Duration, logger *log.Entry) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if logger == nil {
		logger = log.WithField("component", "auth")
	}
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// claims — полезная нагрузка токена: субъект плюс срез профиля,
// достаточный для построения domain.Identity без похода в хранилище.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// RegisterInput — параметры регистрации.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	Address     string
}

// Register создаёт учётную запись покупателя. Дубликат email → ErrEmailTaken.
func (s *Service) Register(input RegisterInput) (domain.User, error) {
	if len(input.Password) < minPasswordLen {
		return domain.User{}, domain.ErrPasswordTooShort
	}

	now := s.now()
	user := domain.User{
		ID:          uuid.NewString(),
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       normalizeEmail(input.Email),
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		Role:        domain.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errs := user.Validate(); len(errs) > 0 {
		return domain.User{}, errs[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(user); err != nil {
		return domain.User{}, err
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login проверяет учётные данные и выдаёт подписанный токен.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(email, password string) (string, domain.User, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *Service) issueToken(user domain.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: user.Email,
		Name:  user.DisplayName(),
		Role:  string(user.Role),
	})
	return token.SignedString(s.secret)
}

// Authenticate проверяет подпись и срок действия токена и возвращает
// удостоверенную личность. Любая проблема токена → ErrInvalidCredentials.
func (s *Service) Authenticate(tokenString string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	payload, ok := parsed.Claims.(*claims)
	if !ok || payload.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return domain.Identity{
		UserID: payload.Subject,
		Email:  payload.Email,
		Name:   payload.Name,
		Role:   domain.Role(payload.Role),
	}, nil
}

// Profile возвращает профиль пользователя.
func (s *Service) Profile(userID string) (domain.User, error) {
	return s.users.Get(userID)
}

// UpdateProfileInput — изменяемые поля профиля. Email и роль через профиль
// не меняются.
type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Address     string
}

// UpdateProfile перезаписывает профильные поля пользователя.
func (s *Service) UpdateProfile(userID string, input UpdateProfileInput) (domain.User, error) {
	user, err := s.users.Get(userID)
	if err != nil {
		return domain.User{}, err
	}

	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.PhoneNumber = input.PhoneNumber
	user.Address = input.Address
	user.UpdatedAt = s.now()

	if errs := user.Validate(); len(errs) > 0 {
		return domain.User{}, errs[0]
	}
	if err := s.users.Update(user); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
