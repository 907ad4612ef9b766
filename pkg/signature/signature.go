// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package signature verifies RSA-PSS signatures made with the private half of
// an OpenSSH public key. Messages are hashed with SHA-256, MGF1 uses SHA-256
// and the salt has the maximum length allowed by the key size.
package signature

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

var (
	ErrMalformedKey   = errors.New("malformed public key")
	ErrUnsupportedKey = errors.New("public key is not an RSA key")
)

// ParsePublicKey parses public key text in authorized_keys form
// ("ssh-rsa AAAA... comment") and returns the RSA key it carries.
func ParsePublicKey(text string) (*rsa.PublicKey, error) {
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(strings.TrimSpace(text)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	cpk, ok := key.(ssh.CryptoPublicKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	pub, ok := cpk.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	return pub, nil
}

// MaxSaltLength is the largest PSS salt a SHA-256 signature can carry for pub.
func MaxSaltLength(pub *rsa.PublicKey) int {
	emLen := (pub.N.BitLen() - 1 + 7) / 8
	return emLen - sha256.Size - 2
}

// Verify reports whether signature is a valid signature over message made by
// the key publicKey describes. Malformed keys and any mismatch report false.
func Verify(message []byte, publicKey string, signature []byte) bool {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return false
	}
	saltLength := MaxSaltLength(pub)
	if saltLength < 0 {
		return false
	}
	digest := sha256.Sum256(message)
	err = rsa.VerifyPSS(pub, crypto.SHA256, digest[:], signature, &rsa.PSSOptions{
		SaltLength: saltLength,
		Hash:       crypto.SHA256,
	})
	return err == nil
}

// VerifyEncoded is Verify for a signature carried as standard base64 text.
func VerifyEncoded(message []byte, publicKey, encodedSignature string) bool {
	sig, err := base64.StdEncoding.DecodeString(encodedSignature)
	if err != nil {
		return false
	}
	return Verify(message, publicKey, sig)
}
