package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance bounds how old a signed webhook payload may be.
// Stripe signs with the delivery timestamp; replays outside the window are
// rejected.
const DefaultTolerance = 5 * time.Minute

var (
	// ErrInvalidSignature indicates the signature header did not verify.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	// ErrTimestampOutsideTolerance indicates a stale (or future-dated) payload.
	ErrTimestampOutsideTolerance = errors.New("webhook timestamp outside tolerance")
)

// signedHeader is the parsed form of a Stripe-Signature header:
// t=<unix>,v1=<hex hmac>[,v1=...].
type signedHeader struct {
	timestamp  time.Time
	signatures [][]byte
}

func parseSignatureHeader(header string) (*signedHeader, error) {
	if header == "" {
		return nil, ErrInvalidSignature
	}

	sh := &signedHeader{}
	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, ErrInvalidSignature
		}
		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp: %w", ErrInvalidSignature)
			}
			sh.timestamp = time.Unix(ts, 0)
		case "v1":
			sig, err := hex.DecodeString(parts[1])
			if err != nil {
				continue // ignore malformed entries, another v1 may verify
			}
			sh.signatures = append(sh.signatures, sig)
		default:
			// Unknown scheme (e.g. v0 test signatures); ignore.
		}
	}

	if sh.timestamp.IsZero() || len(sh.signatures) == 0 {
		return nil, ErrInvalidSignature
	}
	return sh, nil
}

// computeSignature computes the expected HMAC-SHA256 over "t.payload".
func computeSignature(t time.Time, payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", t.Unix())
	mac.Write(payload)
	return mac.Sum(nil)
}

// VerifySignature checks a webhook payload against its Stripe-Signature
// header using the shared signing secret and the default tolerance.
func VerifySignature(payload []byte, header, secret string) error {
	return verifySignatureWithTolerance(payload, header, secret, DefaultTolerance, time.Now())
}

func verifySignatureWithTolerance(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	sh, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := now.Sub(sh.timestamp)
	if age > tolerance || age < -tolerance {
		return ErrTimestampOutsideTolerance
	}

	expected := computeSignature(sh.timestamp, payload, secret)
	for _, sig := range sh.signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// SignPayload produces a Stripe-Signature header value for a payload. Used
// by tests and local tooling to fabricate verifiable deliveries.
func SignPayload(payload []byte, secret string, t time.Time) string {
	sig := computeSignature(t, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), hex.EncodeToString(sig))
}
