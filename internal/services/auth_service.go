package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/cyclelog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxDisplayNameLength = 80

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserLoadFailed     = errors.New("load user failed")
	ErrUserCreateFailed   = errors.New("create user failed")
	ErrUserUpdateFailed   = errors.New("update user failed")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdateTelegramChatID(userID uint, chatID int64) error
}

// Identity is the authenticated user as the rest of the system sees it.
type Identity struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func IdentityFromUser(user models.User) Identity {
	return Identity{UserID: user.ID, Email: user.Email, Name: user.DisplayName}
}

type AuthService struct {
	users    AuthUserRepository
	hashCost int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, hashCost: bcrypt.DefaultCost}
}

func (service *AuthService) Register(emailRaw string, password string, displayName string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrInvalidEmail
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}

	user := models.User{
		Email:        email,
		DisplayName:  normalizeDisplayName(displayName),
		PasswordHash: string(hash),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}
	return user, nil
}

// Authenticate never reveals whether the email or the password was wrong.
func (service *AuthService) Authenticate(emailRaw string, password string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}
	return user, nil
}

// SetTelegramChat stores the reminder chat id. Zero disables reminders.
func (service *AuthService) SetTelegramChat(userID uint, chatID int64) error {
	if err := service.users.UpdateTelegramChatID(userID, chatID); err != nil {
		return fmt.Errorf("%w: %v", ErrUserUpdateFailed, err)
	}
	return nil
}

func normalizeDisplayName(raw string) string {
	name := strings.TrimSpace(raw)
	runes := []rune(name)
	if len(runes) > maxDisplayNameLength {
		name = string(runes[:maxDisplayNameLength])
	}
	return name
}
