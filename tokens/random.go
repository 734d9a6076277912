package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

// generateSecret returns n cryptographically random bytes.
func generateSecret(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("secret length must be positive")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// encodeOpaqueToken packs a token identifier and its secret into the wire
// form handed to clients: "<id>.<base64url(secret)>".
func encodeOpaqueToken(id string, secret []byte) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(secret)
}

// decodeOpaqueToken splits a wire-form opaque token back into its identifier
// and secret. It returns an error for anything that is not "<id>.<b64>".
func decodeOpaqueToken(token string) (string, []byte, error) {
	idx := strings.IndexByte(token, '.')
	if idx <= 0 || idx == len(token)-1 {
		return "", nil, errors.New("malformed opaque token")
	}
	secret, err := base64.RawURLEncoding.DecodeString(token[idx+1:])
	if err != nil {
		return "", nil, errors.New("malformed opaque token")
	}
	return token[:idx], secret, nil
}

const otpDigits = "0123456789"

// generateOtpCode returns a numeric one-time code of the given length using
// rejection sampling so every digit is uniformly distributed.
func generateOtpCode(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("otp length must be positive")
	}

	var sb strings.Builder
	sb.Grow(length)

	buf := make([]byte, 1)
	for sb.Len() < length {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return "", err
		}
		// 250 is the largest multiple of 10 below 256.
		if buf[0] >= 250 {
			continue
		}
		sb.WriteByte(otpDigits[int(buf[0])%10])
	}

	return sb.String(), nil
}
