package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// ErrInvalidSignature is returned when an inbound payload's vnp_SecureHash
// does not match the recomputed value. Callers must stop processing the
// payload entirely when they see it.
var ErrInvalidSignature = errors.New("vnpay: invalid secure hash")

// Signer computes and verifies VNPay secure hashes.
//
// The gateway uses two different signing inputs: outbound payment URLs are
// signed over the percent-encoded canonical string, while inbound return/IPN
// payloads are verified over the raw (non-encoded) canonical string. The
// asymmetry matches the gateway's observed behavior and must not be unified.
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// HmacSHA512 returns the lowercase-hex HMAC-SHA512 of data under the signer's secret.
func (s *Signer) HmacSHA512(data string) string {
	mac := hmac.New(sha512.New, []byte(s.secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// HashAllFields signs the raw canonical string of fields: entries with empty
// values are dropped, keys are sorted bytewise ascending, and the remaining
// pairs are joined as key=value with '&'. Values are used exactly as given.
func (s *Signer) HashAllFields(fields map[string]string) string {
	return s.HmacSHA512(canonicalString(fields, false))
}

// BuildPaymentQuery builds the percent-encoded query string for the payment
// URL and appends the vnp_SecureHash computed over the encoded canonical
// string.
func (s *Signer) BuildPaymentQuery(fields map[string]string) string {
	keys := sortedNonEmptyKeys(fields)

	var hashData, query strings.Builder
	for i, k := range keys {
		encoded := url.QueryEscape(fields[k])
		if i > 0 {
			hashData.WriteByte('&')
			query.WriteByte('&')
		}
		hashData.WriteString(k)
		hashData.WriteByte('=')
		hashData.WriteString(encoded)

		query.WriteString(url.QueryEscape(k))
		query.WriteByte('=')
		query.WriteString(encoded)
	}

	return query.String() + "&vnp_SecureHash=" + s.HmacSHA512(hashData.String())
}

// VerifySecureHash validates an inbound return/IPN field map. It strips the
// vnp_SecureHash and vnp_SecureHashType entries, recomputes the signature
// over the raw canonical string and compares byte-for-byte. The input map is
// not modified.
func (s *Signer) VerifySecureHash(fields map[string]string) error {
	received, ok := fields["vnp_SecureHash"]
	if !ok || received == "" {
		return ErrInvalidSignature
	}

	rest := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		rest[k] = v
	}

	expected := s.HashAllFields(rest)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return ErrInvalidSignature
	}
	return nil
}

func canonicalString(fields map[string]string, encode bool) string {
	keys := sortedNonEmptyKeys(fields)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		v := fields[k]
		if encode {
			v = url.QueryEscape(v)
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String()
}

func sortedNonEmptyKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
