package stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	now := time.Now()

	header := SignPayload(payload, testSecret, now)
	assert.NoError(t, verifySignatureWithTolerance(payload, header, testSecret, DefaultTolerance, now))
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	err := verifySignatureWithTolerance([]byte(`{"id":"evt_2"}`), header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	err := verifySignatureWithTolerance(payload, header, "whsec_other", DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now.Add(-10*time.Minute))

	err := verifySignatureWithTolerance(payload, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrTimestampOutsideTolerance)

	// Future-dated payloads are rejected the same way.
	header = SignPayload(payload, testSecret, now.Add(10*time.Minute))
	err = verifySignatureWithTolerance(payload, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrTimestampOutsideTolerance)
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{
		"",
		"t=abc,v1=deadbeef",
		"v1=deadbeef",
		"t=1700000000",
		"nonsense",
	} {
		err := verifySignatureWithTolerance(payload, header, testSecret, DefaultTolerance, now)
		assert.Error(t, err, "header %q should not verify", header)
	}
}

func TestVerifySignatureMultipleV1Entries(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	good := SignPayload(payload, testSecret, now)

	// An extra bogus v1 entry does not break verification of the real one.
	require.NoError(t, verifySignatureWithTolerance(payload, good+",v1=00ff", testSecret, DefaultTolerance, now))
}
