package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/cyclelog/internal/db"
	"github.com/terraincognita07/cyclelog/internal/security"
	"github.com/terraincognita07/cyclelog/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

type ResetPasswordOptions struct {
	// Prompt asks for the new password on the terminal instead of generating
	// a temporary one.
	Prompt bool
	Stdin  *os.File
	Out    io.Writer

	readSecret func() ([]byte, error)
}

func RunResetPasswordCommand(dbPath string, email string, options ResetPasswordOptions) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errors.New("a valid email is required")
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Stdin == nil {
		options.Stdin = os.Stdin
	}
	if options.readSecret == nil {
		options.readSecret = newSecretReader(options.Stdin).ReadSecret
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}
	users := db.NewUserRepository(database)

	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	password, err := resolveNewPassword(options)
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePasswordHash(user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintln(options.Out, "Password reset successful")
	if !options.Prompt {
		fmt.Fprintf(options.Out, "Temporary password: %s\n", password)
	}
	return nil
}

func resolveNewPassword(options ResetPasswordOptions) (string, error) {
	if !options.Prompt {
		password, err := generateTemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return "", fmt.Errorf("generate temporary password: %w", err)
		}
		return password, nil
	}

	fmt.Fprint(options.Out, "New password: ")
	first, err := options.readSecret()
	fmt.Fprintln(options.Out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(options.Out, "Repeat password: ")
	second, err := options.readSecret()
	fmt.Fprintln(options.Out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if err := services.ValidatePasswordStrength(string(first)); err != nil {
		return "", fmt.Errorf("password must be at least 8 characters with upper, lower and digit: %w", err)
	}
	return string(first), nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	return security.RandomStringAccepted(length, alphabet, func(candidate string) bool {
		return services.ValidatePasswordStrength(candidate) == nil
	})
}
