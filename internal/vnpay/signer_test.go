package vnpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHmacSHA512_KnownVector(t *testing.T) {
	s := NewSigner("S")
	// hex(HMAC-SHA512("S", "a=1&b=2"))
	assert.Equal(t,
		"f2dbf1a47640cabc34711ddfc222c611910393acdf4b2ad9a524b7474d40153f349a33e1d35f77502fdcc7d5d6189fdc6b2d5780c50e3faab9ed969fad8a9029",
		s.HmacSHA512("a=1&b=2"))
}

func TestHashAllFields_SortsKeysBytewise(t *testing.T) {
	s := NewSigner("S")
	fields := map[string]string{"b": "2", "a": "1"}
	assert.Equal(t, s.HmacSHA512("a=1&b=2"), s.HashAllFields(fields))
}

func TestHashAllFields_DropsEmptyValues(t *testing.T) {
	s := NewSigner("S")
	withEmpty := map[string]string{"a": "1", "b": "", "c": "3"}
	without := map[string]string{"a": "1", "c": "3"}
	assert.Equal(t, s.HashAllFields(without), s.HashAllFields(withEmpty))
	assert.Equal(t, s.HmacSHA512("a=1&c=3"), s.HashAllFields(withEmpty))
}

func TestHashAllFields_PermutationInvariant(t *testing.T) {
	s := NewSigner("TESTSECRET")
	a := map[string]string{
		"vnp_Amount":       "10000000",
		"vnp_ResponseCode": "00",
		"vnp_TxnRef":       "42",
	}
	b := map[string]string{
		"vnp_TxnRef":       "42",
		"vnp_Amount":       "10000000",
		"vnp_ResponseCode": "00",
	}
	assert.Equal(t, s.HashAllFields(a), s.HashAllFields(b))
}

func TestBuildPaymentQuery_EncodesAndSigns(t *testing.T) {
	s := NewSigner("TESTSECRET")
	fields := map[string]string{
		"vnp_Amount":    "1000000",
		"vnp_Command":   "pay",
		"vnp_OrderInfo": "Thanh toan don hang:45",
	}

	query := s.BuildPaymentQuery(fields)

	// The signature covers the percent-encoded canonical string
	// "vnp_Amount=1000000&vnp_Command=pay&vnp_OrderInfo=Thanh+toan+don+hang%3A45".
	assert.Equal(t,
		"vnp_Amount=1000000&vnp_Command=pay&vnp_OrderInfo=Thanh+toan+don+hang%3A45"+
			"&vnp_SecureHash=2a993d10e2cf9bec414a534a3e07733b8858285b21228858e7f80bca0b51f3ad274fadcde929ceb30b7b9335e871bde9672a80b5868763284082e74901d16972",
		query)
}

func TestBuildPaymentQuery_SignsEncodedNotRawValues(t *testing.T) {
	s := NewSigner("TESTSECRET")
	fields := map[string]string{
		"vnp_Amount":    "1000000",
		"vnp_Command":   "pay",
		"vnp_OrderInfo": "Thanh toan don hang:45",
	}

	// Inbound verification hashes the raw values, outbound URLs hash the
	// encoded ones. The two signatures must differ whenever a value needs
	// encoding.
	rawHash := s.HashAllFields(fields)
	assert.Equal(t,
		"d1e9bf01c396895ecca6917134b1d028fd1f3149c836ad047700780504f6718175b79c57efcfda59518356a95597d8b5f379d6e425cf0ab39a9d669ab30b3dce",
		rawHash)
	assert.NotContains(t, s.BuildPaymentQuery(fields), rawHash)
}

func TestVerifySecureHash_Valid(t *testing.T) {
	s := NewSigner("TESTSECRET")
	fields := map[string]string{
		"vnp_Amount":       "10000000",
		"vnp_ResponseCode": "00",
		"vnp_TxnRef":       "42",
	}
	sig := s.HashAllFields(fields)
	fields["vnp_SecureHash"] = sig
	fields["vnp_SecureHashType"] = "HmacSHA512"

	require.NoError(t, s.VerifySecureHash(fields))

	// input map must not be modified
	assert.Equal(t, sig, fields["vnp_SecureHash"])
	assert.Equal(t, "HmacSHA512", fields["vnp_SecureHashType"])
}

func TestVerifySecureHash_Tampered(t *testing.T) {
	s := NewSigner("TESTSECRET")
	fields := map[string]string{
		"vnp_Amount":       "10000000",
		"vnp_ResponseCode": "00",
		"vnp_TxnRef":       "42",
	}
	fields["vnp_SecureHash"] = s.HashAllFields(fields)

	fields["vnp_Amount"] = "1"
	assert.ErrorIs(t, s.VerifySecureHash(fields), ErrInvalidSignature)
}

func TestVerifySecureHash_MissingHash(t *testing.T) {
	s := NewSigner("TESTSECRET")
	assert.ErrorIs(t, s.VerifySecureHash(map[string]string{"vnp_TxnRef": "42"}), ErrInvalidSignature)
}

func TestVerifySecureHash_WrongSecret(t *testing.T) {
	fields := map[string]string{"vnp_TxnRef": "42", "vnp_Amount": "10000000"}
	fields["vnp_SecureHash"] = NewSigner("OTHERSECRET").HashAllFields(fields)
	assert.ErrorIs(t, NewSigner("TESTSECRET").VerifySecureHash(fields), ErrInvalidSignature)
}
