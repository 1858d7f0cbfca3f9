package ports

import (
	"context"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// RegisterVoterInput carries voter registration details. FaceImage is an
// optional base64-encoded enrollment photo.
type RegisterVoterInput struct {
	Name      string
	Aadhaar   string
	Email     string
	Password  string
	FaceImage string
}

// AuthService handles voter and admin account authentication.
type AuthService interface {
	RegisterVoter(ctx context.Context, input RegisterVoterInput) (string, *domain.Voter, error)
	// LoginVoter authenticates by email and password; when faceImage is
	// non-empty and the voter has an enrolled template, a biometric re-check
	// is performed as well.
	LoginVoter(ctx context.Context, email, password, faceImage string) (string, *domain.Voter, error)
	LoginAdmin(ctx context.Context, email, password string) (string, *domain.Admin, error)
}
