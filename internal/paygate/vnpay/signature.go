package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Signer computes and checks the gateway's HMAC-SHA512 signatures.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{
		secret: []byte(secret),
	}
}

// Sign returns the lowercase hex signature of fields.
func (s *Signer) Sign(fields map[string]string) string {
	return hex.EncodeToString(s.mac(CanonicalQuery(fields)))
}

// Verify reports whether fields carry a signature produced with the shared
// secret. A missing or undecodable signature never verifies.
func (s *Signer) Verify(fields map[string]string) bool {
	supplied, ok := fields[FieldSecureHash]
	if !ok || supplied == "" {
		return false
	}
	suppliedMAC, err := hex.DecodeString(supplied)
	if err != nil {
		return false
	}
	return hmac.Equal(suppliedMAC, s.mac(CanonicalQuery(fields)))
}

func (s *Signer) mac(message string) []byte {
	h := hmac.New(sha512.New, s.secret)
	h.Write([]byte(message))
	return h.Sum(nil)
}

// CanonicalQuery renders every vnp_ field except the signature fields as
// key=value pairs sorted by key, values query-escaped, joined by '&'.
func CanonicalQuery(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if !strings.HasPrefix(key, fieldPrefix) {
			continue
		}
		if key == FieldSecureHash || key == FieldSecureHashType {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(fields[key]))
	}
	return sb.String()
}
