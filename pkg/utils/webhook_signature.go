package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignWebhookPayload returns the hex HMAC-SHA256 of body keyed with secret,
// the format the gateway sends in the Chapa-Signature header.
func SignWebhookPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature accepts any of the candidate header values.
func VerifyWebhookSignature(secret string, body []byte, signatures ...string) bool {
	if secret == "" {
		return false
	}
	expected := []byte(SignWebhookPayload(secret, body))
	for _, sig := range signatures {
		sig = strings.ToLower(strings.TrimSpace(sig))
		if sig == "" {
			continue
		}
		if hmac.Equal(expected, []byte(sig)) {
			return true
		}
	}
	return false
}
