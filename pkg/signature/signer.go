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

package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Signer produces request signatures for the registry signature gate.
type Signer struct {
	key           *rsa.PrivateKey
	authorizedKey string
}

// NewSigner wraps an RSA private key.
func NewSigner(key *rsa.PrivateKey) (*Signer, error) {
	pub, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive ssh public key: %w", err)
	}
	return &Signer{
		key:           key,
		authorizedKey: strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub))),
	}, nil
}

// ParseSigner parses a PEM encoded RSA private key. PKCS#1, PKCS#8 and
// OpenSSH private key formats are accepted.
func ParseSigner(pemBytes []byte) (*Signer, error) {
	raw, err := ssh.ParseRawPrivateKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported private key type %T", raw)
	}
	return NewSigner(key)
}

// LoadSigner reads a private key file.
func LoadSigner(path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", path, err)
	}
	return ParseSigner(data)
}

// AuthorizedKey returns the public key text to send in the Authorization header.
func (s *Signer) AuthorizedKey() string {
	return s.authorizedKey
}

// Sign signs path and returns the base64 value for the X-Signature header.
func (s *Signer) Sign(path string) (string, error) {
	digest := sha256.Sum256([]byte(path))
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}
