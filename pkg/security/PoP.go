package security

import (
	"encoding/json"
	"fmt"

	jose "gopkg.in/square/go-jose.v2"
)

// SignProof produces a compact-serialized JWS proof-of-possession token for
// creds, binding the given HTTP method and href into the signed payload so
// a verifier can confirm the request was authorized by the key holder
// (WoT `pop` security scheme).
func SignProof(creds PoPCredentials, method, href string) (string, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: creds.PrivateKey}, nil)
	if err != nil {
		return "", fmt.Errorf("security: building PoP signer for key %q: %w", creds.KeyID, err)
	}

	payload, err := json.Marshal(map[string]string{
		"kid":    creds.KeyID,
		"method": method,
		"href":   href,
	})
	if err != nil {
		return "", err
	}

	sig, err := signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("security: signing PoP proof: %w", err)
	}
	return sig.CompactSerialize()
}
