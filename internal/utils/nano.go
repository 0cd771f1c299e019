package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// TokenAlphabet keeps generated tokens safe inside URL path segments.
const TokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// UnsubscribeTokenSize fits the newsletter_subscribers.unsubscribe_token column.
const UnsubscribeTokenSize = 32

// ConsultationTokenSize fits the consultations.access_token column.
const ConsultationTokenSize = 40

func NanoID() string {
	return gonanoid.MustGenerate(TokenAlphabet, UnsubscribeTokenSize)
}

// Token returns a random token of size characters, reporting a failed
// random source instead of panicking.
func Token(size int) (string, error) {
	if size <= 0 {
		size = UnsubscribeTokenSize
	}

	return gonanoid.Generate(TokenAlphabet, size)
}
