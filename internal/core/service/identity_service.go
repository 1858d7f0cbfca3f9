package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/api/metrics"
	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

// DefaultBiometricThreshold is the Euclidean distance below which two face
// templates are considered the same person.
const DefaultBiometricThreshold = 0.6

// IdentityService is the identity gate: it verifies signed session claims and
// optionally a biometric probe against an enrolled template.
type IdentityService struct {
	extractor ports.FeatureExtractor
	jwtSecret string
	tokenTTL  time.Duration
	threshold float64
	log       zerolog.Logger
}

func NewIdentityService(extractor ports.FeatureExtractor, jwtSecret string, tokenTTL time.Duration, threshold float64, log zerolog.Logger) *IdentityService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if threshold <= 0 {
		threshold = DefaultBiometricThreshold
	}
	return &IdentityService{
		extractor: extractor,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		threshold: threshold,
		log:       log,
	}
}

// Authenticate verifies the raw bearer token. Pure function of the token and
// the process-wide signing secret; no side effects.
func (s *IdentityService) Authenticate(token string) (*domain.SessionClaim, error) {
	if token == "" {
		return nil, domain.ErrAuthMissing
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrAuthExpired
		}
		return nil, domain.ErrAuthMalformed
	}
	if !tkn.Valid {
		return nil, domain.ErrAuthMalformed
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, domain.ErrAuthMalformed
	}

	claim := &domain.SessionClaim{SubjectID: sub, Email: email, Role: role}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		claim.ExpiresAt = exp.Time
	}
	return claim, nil
}

// IssueToken signs a session claim for the given subject.
func (s *IdentityService) IssueToken(subjectID, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// VerifyBiometric compares a base64-encoded probe image against the enrolled
// template. An empty template skips verification and reports a pass: the
// system supports biometric-optional accounts, and that is a deliberate
// usability trade-off, not a gap.
func (s *IdentityService) VerifyBiometric(ctx context.Context, enrolled []float64, probeImage string) (ports.BiometricOutcome, error) {
	if len(enrolled) == 0 {
		metrics.BiometricChecksTotal.WithLabelValues("skipped").Inc()
		return ports.BiometricOutcome{Skipped: true}, nil
	}

	probe, err := s.ExtractTemplate(ctx, probeImage)
	if err != nil {
		metrics.BiometricChecksTotal.WithLabelValues(checkResult(err)).Inc()
		return ports.BiometricOutcome{}, err
	}

	dist, err := euclideanDistance(enrolled, probe)
	if err != nil {
		metrics.BiometricChecksTotal.WithLabelValues("mismatch").Inc()
		s.log.Warn().Err(err).Msg("template dimensions differ, treating as mismatch")
		return ports.BiometricOutcome{}, domain.ErrBiometricMismatch
	}

	s.log.Debug().Float64("distance", dist).Float64("threshold", s.threshold).Msg("face comparison")

	if dist >= s.threshold {
		metrics.BiometricChecksTotal.WithLabelValues("mismatch").Inc()
		return ports.BiometricOutcome{}, domain.ErrBiometricMismatch
	}
	metrics.BiometricChecksTotal.WithLabelValues("match").Inc()
	return ports.BiometricOutcome{}, nil
}

// ExtractTemplate decodes a transport-encoded image and extracts a feature
// vector through the configured extraction capability.
func (s *IdentityService) ExtractTemplate(ctx context.Context, faceImage string) ([]float64, error) {
	img, err := decodeImage(faceImage)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(ctx, img)
}

func checkResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrBiometricTimeout):
		return "timeout"
	default:
		return "error"
	}
}

// decodeImage turns a base64 string, optionally carrying a data-URI prefix,
// into a raster image.
func decodeImage(encoded string) (image.Image, error) {
	// Strip "data:image/...;base64," prefix when present.
	if i := strings.IndexByte(encoded, ','); i >= 0 {
		encoded = encoded[i+1:]
	}
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, domain.ErrImageDecode
	}
	// Restore padding clients commonly strip.
	if m := len(encoded) % 4; m != 0 {
		encoded += strings.Repeat("=", 4-m)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}
	return img, nil
}

// euclideanDistance is symmetric: swapping operands yields the same value.
func euclideanDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
