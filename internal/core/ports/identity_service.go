package ports

import (
	"context"
	"time"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// BiometricOutcome reports how the biometric step of a cast-vote call ended.
type BiometricOutcome struct {
	// Skipped is true when the voter has no enrolled template and
	// verification was bypassed as a pass (biometric-optional accounts).
	Skipped bool
}

// IdentityGate verifies caller identity: the signed session claim carried by
// the bearer token, and optionally a biometric probe against the voter's
// enrolled template.
type IdentityGate interface {
	// Authenticate verifies the raw token string and returns the session
	// claim. Fails with domain.ErrAuthMissing, ErrAuthMalformed, or
	// ErrAuthExpired. Pure function of the token and the signing secret.
	Authenticate(token string) (*domain.SessionClaim, error)

	// IssueToken signs a session claim for the given subject.
	IssueToken(subjectID, email, role string) (string, error)

	// VerifyBiometric compares a base64-encoded probe image against the
	// enrolled template. An empty template skips verification and reports a
	// pass. Fails with domain.ErrImageDecode, ErrNoFaceDetected,
	// ErrBiometricMismatch, or ErrBiometricTimeout.
	VerifyBiometric(ctx context.Context, enrolled []float64, probeImage string) (BiometricOutcome, error)

	// ExtractTemplate decodes an image and extracts an enrollment template.
	ExtractTemplate(ctx context.Context, faceImage string) ([]float64, error)
}

// EligibilityChecker validates voter, election, and candidate state against
// the current time, reporting the first applicable failure in the fixed
// order: voter inactive, election not found, election inactive, not started,
// ended, candidate mismatch.
type EligibilityChecker interface {
	Validate(ctx context.Context, voter *domain.Voter, electionID, candidateID string, now time.Time) error
}
