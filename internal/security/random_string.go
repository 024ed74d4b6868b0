package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errNoAcceptable   = errors.New("no acceptable random string generated")
)

const maxAcceptAttempts = 64

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// RandomStringAccepted draws strings until accept approves one. It gives up
// after a bounded number of attempts so an impossible predicate cannot spin.
func RandomStringAccepted(length int, alphabet string, accept func(string) bool) (string, error) {
	for attempt := 0; attempt < maxAcceptAttempts; attempt++ {
		value, err := RandomString(length, alphabet)
		if err != nil {
			return "", err
		}
		if accept == nil || accept(value) {
			return value, nil
		}
	}
	return "", errNoAcceptable
}
