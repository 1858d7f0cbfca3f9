package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

func newAuthFixture(extractor *stubExtractor) (*AuthService, *memVoterRepo, *memAdminRepo, *IdentityService) {
	voters := newMemVoterRepo()
	admins := newMemAdminRepo()
	identity := NewIdentityService(extractor, "test-secret", time.Hour, 0.6, zerolog.Nop())
	return NewAuthService(voters, admins, identity, zerolog.Nop()), voters, admins, identity
}

func registerInput() ports.RegisterVoterInput {
	return ports.RegisterVoterInput{
		Name:     "Alice",
		Aadhaar:  "123456789012",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	}
}

func TestRegisterVoter_Success(t *testing.T) {
	svc, voters, _, identity := newAuthFixture(&stubExtractor{})
	ctx := context.Background()

	token, voter, err := svc.RegisterVoter(ctx, registerInput())
	if err != nil {
		t.Fatalf("RegisterVoter: %v", err)
	}
	if voter.ID == "" || voter.Status != domain.VoterStatusActive {
		t.Fatalf("unexpected voter: %+v", voter)
	}
	if len(voter.FaceEmbedding) != 0 {
		t.Fatalf("no photo given, embedding must be empty")
	}
	if voter.PasswordHash == "s3cret-pass" {
		t.Fatalf("password stored in the clear")
	}

	claim, err := identity.Authenticate(token)
	if err != nil {
		t.Fatalf("issued token does not authenticate: %v", err)
	}
	if claim.SubjectID != voter.ID || claim.Role != domain.RoleUser {
		t.Fatalf("unexpected claim: %+v", claim)
	}

	if _, err := voters.FindByEmail(ctx, "alice@example.com"); err != nil {
		t.Fatalf("voter not persisted: %v", err)
	}
}

func TestRegisterVoter_InvalidAadhaar(t *testing.T) {
	svc, _, _, _ := newAuthFixture(&stubExtractor{})

	for _, aadhaar := range []string{"", "12345", "12345678901a", "1234567890123"} {
		input := registerInput()
		input.Aadhaar = aadhaar
		if _, _, err := svc.RegisterVoter(context.Background(), input); !errors.Is(err, domain.ErrInvalidAadhaar) {
			t.Fatalf("aadhaar %q: expected ErrInvalidAadhaar, got %v", aadhaar, err)
		}
	}
}

func TestRegisterVoter_Duplicate(t *testing.T) {
	svc, _, _, _ := newAuthFixture(&stubExtractor{})
	ctx := context.Background()

	if _, _, err := svc.RegisterVoter(ctx, registerInput()); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	// Same email, different aadhaar.
	dup := registerInput()
	dup.Aadhaar = "999999999999"
	if _, _, err := svc.RegisterVoter(ctx, dup); !errors.Is(err, domain.ErrVoterExists) {
		t.Fatalf("duplicate email: expected ErrVoterExists, got %v", err)
	}

	// Same aadhaar, different email.
	dup = registerInput()
	dup.Email = "other@example.com"
	if _, _, err := svc.RegisterVoter(ctx, dup); !errors.Is(err, domain.ErrVoterExists) {
		t.Fatalf("duplicate aadhaar: expected ErrVoterExists, got %v", err)
	}
}

func TestRegisterVoter_EnrollsBiometric(t *testing.T) {
	svc, _, _, _ := newAuthFixture(&stubExtractor{vec: []float64{0.1, 0.2, 0.3}})

	input := registerInput()
	input.FaceImage = encodeTestImage(t)
	_, voter, err := svc.RegisterVoter(context.Background(), input)
	if err != nil {
		t.Fatalf("RegisterVoter: %v", err)
	}
	if len(voter.FaceEmbedding) != 3 {
		t.Fatalf("expected enrolled template, got %v", voter.FaceEmbedding)
	}
}

func TestRegisterVoter_BadPhotoIsHardError(t *testing.T) {
	svc, _, _, _ := newAuthFixture(&stubExtractor{vec: []float64{1}})

	input := registerInput()
	input.FaceImage = strings.Repeat("@", 200)
	if _, _, err := svc.RegisterVoter(context.Background(), input); !errors.Is(err, domain.ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode for unusable photo, got %v", err)
	}
}

func TestLoginVoter(t *testing.T) {
	svc, _, _, _ := newAuthFixture(&stubExtractor{})
	ctx := context.Background()

	if _, _, err := svc.RegisterVoter(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if token, _, err := svc.LoginVoter(ctx, "alice@example.com", "s3cret-pass", ""); err != nil || token == "" {
		t.Fatalf("login: token=%q err=%v", token, err)
	}
	if _, _, err := svc.LoginVoter(ctx, "alice@example.com", "wrong", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.LoginVoter(ctx, "nobody@example.com", "s3cret-pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginVoter_BiometricMismatch(t *testing.T) {
	svc, voters, _, _ := newAuthFixture(&stubExtractor{vec: []float64{1, 2, 3}})
	ctx := context.Background()

	if _, _, err := svc.RegisterVoter(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	voter, _ := voters.FindByEmail(ctx, "alice@example.com")
	voter.FaceEmbedding = []float64{50, 50, 50}
	voters.add(voter)

	_, _, err := svc.LoginVoter(ctx, "alice@example.com", "s3cret-pass", encodeTestImage(t))
	if !errors.Is(err, domain.ErrBiometricMismatch) {
		t.Fatalf("expected ErrBiometricMismatch, got %v", err)
	}
}

func TestLoginAdmin(t *testing.T) {
	svc, _, admins, identity := newAuthFixture(&stubExtractor{})
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.DefaultCost)
	_ = admins.Create(ctx, &domain.Admin{ID: "a1", Email: "admin@example.com", PasswordHash: string(hash)})

	token, admin, err := svc.LoginAdmin(ctx, "admin@example.com", "admin-pass")
	if err != nil {
		t.Fatalf("LoginAdmin: %v", err)
	}
	if admin.ID != "a1" {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	claim, err := identity.Authenticate(token)
	if err != nil || claim.Role != domain.RoleAdmin {
		t.Fatalf("expected admin claim, got %+v err=%v", claim, err)
	}

	if _, _, err := svc.LoginAdmin(ctx, "admin@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.LoginAdmin(ctx, "ghost@example.com", "admin-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown admin: expected ErrInvalidCredentials, got %v", err)
	}
}
