package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyWebhookSignature checks a hex encoded HMAC-SHA256 of payload.
// An empty secret never validates.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}
	sig = strings.TrimPrefix(strings.ToLower(sig), "sha256=")

	decodedSig, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(computeHMAC(payload, []byte(secret)), decodedSig)
}

// SignWebhookPayload returns the signature header value for payload.
func SignWebhookPayload(payload []byte, webhookSecret string) string {
	return hex.EncodeToString(computeHMAC(payload, []byte(strings.TrimSpace(webhookSecret))))
}

func computeHMAC(payload, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
