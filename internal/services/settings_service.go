package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/cyclelog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrSettingsPasswordChangeInvalidInput = errors.New("settings password change invalid input")
	ErrSettingsPasswordMismatch           = errors.New("settings password mismatch")
	ErrSettingsInvalidCurrentPassword     = errors.New("settings invalid current password")
	ErrSettingsNewPasswordMustDiffer      = errors.New("settings new password must differ")
	ErrSettingsPasswordMissing            = errors.New("settings password missing")
	ErrSettingsPasswordInvalid            = errors.New("settings password invalid")
)

type SettingsUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdatePasswordHash(userID uint, passwordHash string) error
	DeleteWithCycles(userID uint) error
}

type SettingsService struct {
	users    SettingsUserRepository
	hashCost int
}

func NewSettingsService(users SettingsUserRepository) *SettingsService {
	return &SettingsService{users: users, hashCost: bcrypt.DefaultCost}
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (service *SettingsService) ChangePassword(userID uint, change PasswordChange) error {
	user, err := service.loadUser(userID)
	if err != nil {
		return err
	}
	if err := validatePasswordChange(user.PasswordHash, change); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(change.NewPassword), service.hashCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserUpdateFailed, err)
	}
	if err := service.users.UpdatePasswordHash(userID, string(hash)); err != nil {
		return fmt.Errorf("%w: %v", ErrUserUpdateFailed, err)
	}
	return nil
}

// ConfirmPassword guards destructive actions behind the account password.
func (service *SettingsService) ConfirmPassword(userID uint, password string) error {
	user, err := service.loadUser(userID)
	if err != nil {
		return err
	}
	if password == "" {
		return ErrSettingsPasswordMissing
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrSettingsPasswordInvalid
	}
	return nil
}

func (service *SettingsService) DeleteAccount(userID uint, password string) error {
	if err := service.ConfirmPassword(userID, password); err != nil {
		return err
	}
	if err := service.users.DeleteWithCycles(userID); err != nil {
		return fmt.Errorf("%w: %v", ErrUserUpdateFailed, err)
	}
	return nil
}

func (service *SettingsService) loadUser(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrUserLoadFailed, err)
	}
	return user, nil
}

func validatePasswordChange(passwordHash string, change PasswordChange) error {
	if change.CurrentPassword == "" || change.NewPassword == "" || change.ConfirmPassword == "" {
		return ErrSettingsPasswordChangeInvalidInput
	}
	if change.NewPassword != change.ConfirmPassword {
		return ErrSettingsPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(change.CurrentPassword)) != nil {
		return ErrSettingsInvalidCurrentPassword
	}
	if change.CurrentPassword == change.NewPassword {
		return ErrSettingsNewPasswordMustDiffer
	}
	return ValidatePasswordStrength(change.NewPassword)
}
