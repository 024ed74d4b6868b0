package services

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type stubSettingsUserRepo struct {
	*stubAuthUserRepo
	updateErr error
	deleted   []uint
}

func (stub *stubSettingsUserRepo) UpdatePasswordHash(userID uint, passwordHash string) error {
	if stub.updateErr != nil {
		return stub.updateErr
	}
	user := stub.users[userID]
	user.PasswordHash = passwordHash
	stub.users[userID] = user
	return nil
}

func (stub *stubSettingsUserRepo) DeleteWithCycles(userID uint) error {
	delete(stub.users, userID)
	stub.deleted = append(stub.deleted, userID)
	return nil
}

func newSettingsFixture(t *testing.T) (*SettingsService, *AuthService, *stubSettingsUserRepo, uint) {
	t.Helper()

	repo := &stubSettingsUserRepo{stubAuthUserRepo: newStubAuthUserRepo()}
	auth := newTestAuthService(repo)
	user, err := auth.Register("ada@example.com", "StrongPass1", "")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	settings := NewSettingsService(repo)
	settings.hashCost = bcrypt.MinCost
	return settings, auth, repo, user.ID
}

func TestSettingsChangePassword(t *testing.T) {
	t.Parallel()

	settings, auth, _, userID := newSettingsFixture(t)

	err := settings.ChangePassword(userID, PasswordChange{
		CurrentPassword: "StrongPass1",
		NewPassword:     "EvenStronger2",
		ConfirmPassword: "EvenStronger2",
	})
	if err != nil {
		t.Fatalf("ChangePassword() unexpected error: %v", err)
	}
	if _, err := auth.Authenticate("ada@example.com", "EvenStronger2"); err != nil {
		t.Fatalf("expected new password to authenticate, got %v", err)
	}
	if _, err := auth.Authenticate("ada@example.com", "StrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
}

func TestSettingsChangePasswordRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		change  PasswordChange
		wantErr error
	}{
		{
			name:    "missing fields",
			change:  PasswordChange{CurrentPassword: "StrongPass1"},
			wantErr: ErrSettingsPasswordChangeInvalidInput,
		},
		{
			name:    "confirmation mismatch",
			change:  PasswordChange{CurrentPassword: "StrongPass1", NewPassword: "EvenStronger2", ConfirmPassword: "EvenStronger3"},
			wantErr: ErrSettingsPasswordMismatch,
		},
		{
			name:    "wrong current password",
			change:  PasswordChange{CurrentPassword: "WrongPass1", NewPassword: "EvenStronger2", ConfirmPassword: "EvenStronger2"},
			wantErr: ErrSettingsInvalidCurrentPassword,
		},
		{
			name:    "unchanged password",
			change:  PasswordChange{CurrentPassword: "StrongPass1", NewPassword: "StrongPass1", ConfirmPassword: "StrongPass1"},
			wantErr: ErrSettingsNewPasswordMustDiffer,
		},
		{
			name:    "weak password",
			change:  PasswordChange{CurrentPassword: "StrongPass1", NewPassword: "weakpass", ConfirmPassword: "weakpass"},
			wantErr: ErrWeakPassword,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			settings, _, _, userID := newSettingsFixture(t)
			if err := settings.ChangePassword(userID, tc.change); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSettingsChangePasswordWrapsStoreFailure(t *testing.T) {
	t.Parallel()

	settings, _, repo, userID := newSettingsFixture(t)
	repo.updateErr = errors.New("disk full")

	err := settings.ChangePassword(userID, PasswordChange{
		CurrentPassword: "StrongPass1",
		NewPassword:     "EvenStronger2",
		ConfirmPassword: "EvenStronger2",
	})
	if !errors.Is(err, ErrUserUpdateFailed) {
		t.Fatalf("expected ErrUserUpdateFailed, got %v", err)
	}
}

func TestSettingsDeleteAccount(t *testing.T) {
	t.Parallel()

	settings, _, repo, userID := newSettingsFixture(t)

	if err := settings.DeleteAccount(userID, ""); !errors.Is(err, ErrSettingsPasswordMissing) {
		t.Fatalf("expected ErrSettingsPasswordMissing, got %v", err)
	}
	if err := settings.DeleteAccount(userID, "WrongPass1"); !errors.Is(err, ErrSettingsPasswordInvalid) {
		t.Fatalf("expected ErrSettingsPasswordInvalid, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("expected no deletion before confirmation, got %v", repo.deleted)
	}

	if err := settings.DeleteAccount(userID, "StrongPass1"); err != nil {
		t.Fatalf("DeleteAccount() unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != userID {
		t.Fatalf("expected user %d deleted, got %v", userID, repo.deleted)
	}
	if err := settings.ConfirmPassword(userID, "StrongPass1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after deletion, got %v", err)
	}
}
