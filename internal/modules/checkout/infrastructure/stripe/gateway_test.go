package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/imsoft/cursumi/internal/modules/checkout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripesdk "github.com/stripe/stripe-go/v79"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload produces a Stripe-Signature header the webhook package
// accepts for the given payload.
func signPayload(payload []byte, secret string, at time.Time) string {
	timestamp := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "." + string(payload)))
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func completedSessionPayload(email, ebookIDsJSON string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"customer_email": %q,
				"metadata": {
					"ebook_ids": %q,
					"customer_email": "meta@example.com"
				}
			}
		}
	}`, stripesdk.APIVersion, email, ebookIDsJSON))
}

func TestGateway_Parse_RejectsBadSignature(t *testing.T) {
	g := NewGateway("sk_test", testWebhookSecret)
	payload := completedSessionPayload("buyer@example.com", `["a"]`)

	_, err := g.Parse(payload, "t=123,v1=deadbeef")

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestGateway_Parse_RejectsTamperedPayload(t *testing.T) {
	g := NewGateway("sk_test", testWebhookSecret)
	payload := completedSessionPayload("buyer@example.com", `["a"]`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '

	_, err := g.Parse(tampered, header)

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestGateway_Parse_CompletedSession(t *testing.T) {
	g := NewGateway("sk_test", testWebhookSecret)
	payload := completedSessionPayload("buyer@example.com", `["11111111-1111-1111-1111-111111111111"]`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	completed, err := g.Parse(payload, header)

	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, "evt_test_1", completed.EventID)
	assert.Equal(t, "cs_test_1", completed.SessionID)
	assert.Equal(t, "buyer@example.com", completed.CustomerEmail)
	assert.Equal(t, []string{"11111111-1111-1111-1111-111111111111"}, completed.EbookIDs)
}

func TestGateway_Parse_EmailFallsBackToMetadata(t *testing.T) {
	g := NewGateway("sk_test", testWebhookSecret)
	payload := completedSessionPayload("", `["11111111-1111-1111-1111-111111111111"]`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	completed, err := g.Parse(payload, header)

	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, "meta@example.com", completed.CustomerEmail)
}

func TestGateway_Parse_IgnoresOtherEventTypes(t *testing.T) {
	g := NewGateway("sk_test", testWebhookSecret)
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test_2",
		"api_version": %q,
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_test_1", "object": "payment_intent"}}
	}`, stripesdk.APIVersion))
	header := signPayload(payload, testWebhookSecret, time.Now())

	completed, err := g.Parse(payload, header)

	require.NoError(t, err)
	assert.Nil(t, completed)
}

func TestGateway_Parse_BadEbookIDsMetadata(t *testing.T) {
	g := NewGateway("sk_test", testWebhookSecret)
	payload := completedSessionPayload("buyer@example.com", `not-json`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	_, err := g.Parse(payload, header)

	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}
