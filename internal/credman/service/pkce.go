package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sunfall-labs/credman/pkg/cryptox"
)

// CodeChallengeMethod is the PKCE transform sent to the provider. The
// upstream provider only supports "plain", so the code_challenge is the
// verifier verbatim.
const CodeChallengeMethod = "plain"

// verifierRandomLength is the number of random characters before the
// timestamp suffix.
const verifierRandomLength = 43

// stateEntropyBytes is the random prefix size for state tokens (hex-encoded
// to twice this many characters).
const stateEntropyBytes = 16

// verifierClasses are cycled per position: uppercase, lowercase, digits,
// then the RFC 7636 unreserved symbols.
var verifierClasses = [4]string{
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"abcdefghijklmnopqrstuvwxyz",
	"0123456789",
	"-._~",
}

// GenerateCodeVerifier builds a PKCE code verifier: 43 random characters
// where position i draws uniformly from class i mod 4, followed by now in
// RFC 3339 form with every ":" replaced by "." so the whole verifier stays
// within the RFC 7636 unreserved character set.
func GenerateCodeVerifier(now time.Time) (string, error) {
	var b strings.Builder
	b.Grow(verifierRandomLength + len(time.RFC3339))

	for i := range verifierRandomLength {
		class := verifierClasses[i%len(verifierClasses)]

		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(class))))
		if err != nil {
			return "", fmt.Errorf("failed to draw verifier character: %w", err)
		}
		b.WriteByte(class[n.Int64()])
	}

	suffix := strings.ReplaceAll(now.UTC().Format(time.RFC3339), ":", ".")
	b.WriteString(suffix)

	return b.String(), nil
}

// GenerateState builds an anti-CSRF state token: a cryptographically random
// hex prefix concatenated with a static configured suffix. The suffix lets
// operators recognise their own callbacks at a glance; it may be empty.
func GenerateState(suffix string) (string, error) {
	prefix, err := cryptox.GenerateHex(stateEntropyBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return prefix + suffix, nil
}
