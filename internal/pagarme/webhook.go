package pagarme

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// SignatureHeader is the header carrying the HMAC of the webhook body
const SignatureHeader = "X-Hub-Signature"

// Event is one webhook delivery
type Event struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	CreatedAt string   `json:"created_at"`
	Data      Resource `json:"data"`
}

// ParseEvent decodes a webhook body. Events without a type are rejected.
func ParseEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("malformed webhook payload: missing type")
	}
	return &event, nil
}

// ObjectType returns the resource family of the event ("charge" for "charge.paid")
func (e *Event) ObjectType() string {
	if i := strings.IndexByte(e.Type, '.'); i > 0 {
		return e.Type[:i]
	}
	return e.Type
}

// VerifySignature checks an "sha1=<hex>" signature against the raw body
func VerifySignature(body []byte, signature, secret string) bool {
	const prefix = "sha1="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}

	got, err := hex.DecodeString(strings.TrimPrefix(signature, prefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the signature header value for body. Used by tests and tooling.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}
