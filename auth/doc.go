// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies signed chat interactions.

# Signatures

Every interaction carries an Ed25519 signature over the timestamp header
followed by the raw request body:

	key, err := auth.ParsePublicKey(cfg.PublicKey)
	err = auth.VerifyRequest(key, r, body)

The signature and timestamp arrive in the X-Signature-Ed25519 and
X-Signature-Timestamp headers. Any mismatch returns ErrInvalidSignature.

# Signing

Sign produces a signature with a private key. It exists for tests and for
replaying recorded interactions against a local server.
*/
package auth
