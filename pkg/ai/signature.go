package ai

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	svixSecretPrefix = "whsec_"
	svixTolerance    = 5 * time.Minute
)

var (
	ErrMissingSignatureHeaders = errors.New("missing signature headers")
	ErrSignatureTimestamp      = errors.New("signature timestamp outside tolerance")
	ErrSignatureMismatch       = errors.New("no matching signature")
)

// SvixHeaders are the three headers a signed identity-provider webhook carries
type SvixHeaders struct {
	ID        string
	Timestamp string
	Signature string
}

// VerifySvix checks a webhook signed with HMAC-SHA256 over "id.timestamp.payload".
// secret is the "whsec_"-prefixed base64 signing secret. Signature may hold several
// space-separated "v1,<base64>" entries; any match passes.
func VerifySvix(secret string, headers SvixHeaders, payload []byte, now time.Time) error {
	if headers.ID == "" || headers.Timestamp == "" || headers.Signature == "" {
		return ErrMissingSignatureHeaders
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, svixSecretPrefix))
	if err != nil || len(key) == 0 {
		return fmt.Errorf("invalid signing secret: %w", err)
	}

	ts, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid signature timestamp: %w", err)
	}
	sent := time.Unix(ts, 0)
	if now.Sub(sent) > svixTolerance || sent.Sub(now) > svixTolerance {
		return ErrSignatureTimestamp
	}

	expected := SignSvix(key, headers.ID, headers.Timestamp, payload)
	for _, entry := range strings.Fields(headers.Signature) {
		version, sig, ok := strings.Cut(entry, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

// SignSvix returns the base64 v1 signature for the given message parts
func SignSvix(key []byte, id, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SecretEqual compares a shared secret in constant time
func SecretEqual(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(got))
}
