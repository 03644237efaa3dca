package domain

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/SmartGenzAI1/securevibe/internal/errors"
)

// Principal configuration errors.
var (
	// ErrAPIClientsNotSet indicates the API_CLIENTS environment variable is missing.
	ErrAPIClientsNotSet = errors.New("API_CLIENTS environment variable is not set")

	// ErrInvalidAPIClientsFormat indicates an API_CLIENTS entry is malformed.
	ErrInvalidAPIClientsFormat = errors.New("invalid API_CLIENTS format, expected 'id:base64secret:tier'")

	// ErrInvalidAPIClientSecret indicates a principal secret is not valid base64.
	ErrInvalidAPIClientSecret = errors.New("invalid base64 in API client secret")

	// ErrInvalidAPIClientTier indicates a tier other than base/elevated.
	ErrInvalidAPIClientTier = errors.New("invalid API client tier")

	// ErrPrincipalNotFound indicates the presented credential matches no principal.
	ErrPrincipalNotFound = errors.Wrap(errors.ErrUnauthorized, "unknown principal")
)

// Principal represents an authenticated API caller: the resolved identity
// behind a credential, with the shared secret used for HMAC request-signature
// verification and the usage tier that selects its quota.
type Principal struct {
	ID     string
	Secret []byte
	Tier   Tier
}

// PrincipalSet holds the configured principals keyed by ID.
//
// Thread safety: the set is populated once at load time and read-only
// afterwards; sync.Map covers concurrent lookups from request handlers.
type PrincipalSet struct {
	principals sync.Map
}

// Get retrieves a principal by ID.
func (s *PrincipalSet) Get(id string) (*Principal, bool) {
	if p, ok := s.principals.Load(id); ok {
		return p.(*Principal), true
	}
	return nil, false
}

// Len returns the number of configured principals.
func (s *PrincipalSet) Len() int {
	n := 0
	s.principals.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close clears all principal secrets from memory and resets the set.
func (s *PrincipalSet) Close() {
	s.principals.Range(func(key, value any) bool {
		Zero(value.(*Principal).Secret)
		s.principals.Delete(key)
		return true
	})
}

// LoadPrincipalSetFromEnv loads API principals from the API_CLIENTS
// environment variable.
//
// Format: comma-separated entries "id:base64secret:tier", for example:
//
//	API_CLIENTS="svc-web:YWJj...:base,svc-admin:ZGVm...:elevated"
//
// The secret is the HMAC key used by the request-signature middleware and
// must be base64-encoded (standard encoding). Tier must be "base" or
// "elevated". On any error the partially built set is closed so no secret
// material survives a failed load.
func LoadPrincipalSetFromEnv() (*PrincipalSet, error) {
	raw := os.Getenv("API_CLIENTS")
	if raw == "" {
		return nil, ErrAPIClientsNotSet
	}

	set := &PrincipalSet{}

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 3)
		if len(p) != 3 {
			set.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidAPIClientsFormat, part)
		}

		id := p[0]
		secret, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidAPIClientSecret, id, err)
		}

		tier := Tier(p[2])
		if tier != TierBase && tier != TierElevated {
			Zero(secret)
			set.Close()
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidAPIClientTier, id, p[2])
		}

		set.principals.Store(id, &Principal{ID: id, Secret: secret, Tier: tier})
	}

	return set, nil
}
