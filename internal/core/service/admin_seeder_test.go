package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/freshcart/storefront/internal/core/domain"
)

func TestEnsureAdmin_Idempotent(t *testing.T) {
	admins := newStubAdminRepo()
	creds := AdminCredentials{Email: "Admin@Grocery.com", Password: "admin123"}

	created, err := EnsureAdmin(context.Background(), admins, creds, discardLogger)
	if err != nil || !created {
		t.Fatalf("first run: created=%v err=%v", created, err)
	}

	creds.Password = "rotated-pass"
	creds.Name = "Store Owner"
	created, err = EnsureAdmin(context.Background(), admins, creds, discardLogger)
	if err != nil || created {
		t.Fatalf("second run: created=%v err=%v", created, err)
	}

	if len(admins.admins) != 1 || admins.created != 1 || admins.updated != 1 {
		t.Fatalf("admins=%d created=%d updated=%d", len(admins.admins), admins.created, admins.updated)
	}

	admin, err := admins.FindByEmail(context.Background(), "admin@grocery.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if admin.Name != "Store Owner" {
		t.Errorf("name = %q", admin.Name)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("rotated-pass")) != nil {
		t.Error("password was not reset")
	}
}

func TestEnsureAdmin_DefaultsAndValidation(t *testing.T) {
	admins := newStubAdminRepo()

	if _, err := EnsureAdmin(context.Background(), admins, AdminCredentials{Email: "a@b.c"}, discardLogger); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing password: got %v", err)
	}

	if _, err := EnsureAdmin(context.Background(), admins, AdminCredentials{Email: "a@b.c", Password: "pw"}, discardLogger); err != nil {
		t.Fatalf("seed: %v", err)
	}
	admin, _ := admins.FindByEmail(context.Background(), "a@b.c")
	if admin.Name != "Admin User" {
		t.Errorf("default name = %q", admin.Name)
	}
}
