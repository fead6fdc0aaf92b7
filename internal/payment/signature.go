package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "sbp-sig"

const signatureScheme = "sha256"

// Sign returns the header value the processor sends for body.
func Sign(body []byte, secret string) string {
	return signatureScheme + "=" + hex.EncodeToString(mac(body, secret))
}

// VerifySignature checks a "<scheme>=<hex token>" header against the
// HMAC-SHA256 of the raw body. It fails closed on any missing or malformed input.
func VerifySignature(body []byte, header, secret string) bool {
	if secret == "" || header == "" {
		return false
	}
	_, token, ok := strings.Cut(header, "=")
	if !ok || token == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return false
	}
	return hmac.Equal(got, mac(body, secret))
}

func mac(body []byte, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return h.Sum(nil)
}
