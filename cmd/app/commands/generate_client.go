package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// RunGenerateClient generates an API client secret and prints the entry in
// the format expected by the API_CLIENTS environment variable.
func RunGenerateClient(id, tier string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("client id must not be blank")
	}
	if strings.ContainsAny(id, ":,") {
		return fmt.Errorf("client id must not contain ':' or ','")
	}

	clientTier := securityDomain.Tier(tier)
	if clientTier != securityDomain.TierBase && clientTier != securityDomain.TierElevated {
		return fmt.Errorf("invalid tier: %s (valid options: base, elevated)", tier)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate client secret: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(secret)
	securityDomain.Zero(secret)

	fmt.Println("# API client configuration")
	fmt.Println("# Append this entry to the comma-separated API_CLIENTS variable")
	fmt.Println()
	fmt.Printf("API_CLIENTS=\"%s:%s:%s\"\n", id, encoded, clientTier)

	return nil
}
