package domain

import "errors"

// Authentication failures, surfaced by the identity gate.
var (
	ErrAuthMissing        = errors.New("missing bearer credential")
	ErrAuthMalformed      = errors.New("malformed token")
	ErrAuthExpired        = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access forbidden")
)

// Eligibility failures. The eligibility checker reports the first applicable
// one in declaration order; callers rely on that ordering for messages.
var (
	ErrVoterInactive      = errors.New("voter is not eligible to vote")
	ErrElectionNotFound   = errors.New("election not found")
	ErrElectionInactive   = errors.New("election is not active")
	ErrElectionNotStarted = errors.New("election has not started")
	ErrElectionEnded      = errors.New("election has ended")
	ErrCandidateMismatch  = errors.New("invalid candidate for this election")
)

// Biometric verification failures.
var (
	ErrImageDecode       = errors.New("invalid image data")
	ErrNoFaceDetected    = errors.New("could not detect face in image")
	ErrBiometricMismatch = errors.New("face verification failed")
	ErrBiometricTimeout  = errors.New("face verification timed out")
)

// Ledger / persistence failures.
var (
	ErrAlreadyVoted      = errors.New("already voted in this election")
	ErrVoterNotFound     = errors.New("voter not found")
	ErrVoterExists       = errors.New("voter already registered")
	ErrInvalidAadhaar    = errors.New("invalid aadhaar format, must be 12 digits")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)
