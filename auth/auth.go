// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
)

// Header names carrying the interaction signature.
const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"
)

var (
	ErrInvalidSignature = errors.New("invalid request signature")
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// ParsePublicKey decodes a hex-encoded Ed25519 public key.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	b, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKey, len(b), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(b), nil
}

// VerifySignature checks that signature (hex) signs timestamp followed by body.
func VerifySignature(key ed25519.PublicKey, signature, timestamp string, body []byte) error {
	if signature == "" || timestamp == "" {
		return ErrInvalidSignature
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}

	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)

	if !ed25519.Verify(key, msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyRequest checks the signature headers of r against body.
func VerifyRequest(key ed25519.PublicKey, r *http.Request, body []byte) error {
	return VerifySignature(key, r.Header.Get(HeaderSignature), r.Header.Get(HeaderTimestamp), body)
}

// Sign produces the hex signature a sender would attach. Used by tests and
// local tooling that replays interactions.
func Sign(key ed25519.PrivateKey, timestamp string, body []byte) string {
	msg := append([]byte(timestamp), body...)
	return hex.EncodeToString(ed25519.Sign(key, msg))
}
