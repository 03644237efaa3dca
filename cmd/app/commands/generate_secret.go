package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
)

// RunGenerateSecret generates a cryptographically secure service secret used
// as the seed for master key derivation. The secret is printed in the format
// expected by the SERVICE_SECRET environment variable.
func RunGenerateSecret(length int) error {
	if length < 16 {
		return fmt.Errorf("secret must be at least 16 bytes, got %d", length)
	}

	secret := make([]byte, length)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(secret)
	securityDomain.Zero(secret)

	fmt.Println("# Service secret configuration")
	fmt.Println("# Copy this environment variable to your .env file or secrets manager")
	fmt.Println()
	fmt.Printf("SERVICE_SECRET=\"%s\"\n", encoded)

	return nil
}
