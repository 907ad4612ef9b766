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
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"pgregory.net/rapid"
)

var (
	keysOnce sync.Once
	signerA  *Signer
	signerB  *Signer
)

func testSigners(t testing.TB) (*Signer, *Signer) {
	keysOnce.Do(func() {
		gen := func() *Signer {
			key, err := rsa.GenerateKey(rand.Reader, 2048)
			require.NoError(t, err)
			s, err := NewSigner(key)
			require.NoError(t, err)
			return s
		}
		signerA, signerB = gen(), gen()
	})
	return signerA, signerB
}

func TestAuthorizedKeyRoundTrip(t *testing.T) {
	a, _ := testSigners(t)
	require.True(t, strings.HasPrefix(a.AuthorizedKey(), "ssh-rsa "))
	require.NotContains(t, a.AuthorizedKey(), "\n")

	pub, err := ParsePublicKey(a.AuthorizedKey())
	require.NoError(t, err)
	require.Equal(t, a.key.PublicKey.N, pub.N)
}

func TestSignThenVerify(t *testing.T) {
	a, b := testSigners(t)
	path := "/v1/plugins/widget/versions/1.0.0"

	sig, err := a.Sign(path)
	require.NoError(t, err)

	require.True(t, VerifyEncoded([]byte(path), a.AuthorizedKey(), sig))
	require.True(t, VerifyEncoded([]byte(path), a.AuthorizedKey()+" someone@example.com", sig))
	require.False(t, VerifyEncoded([]byte(path), b.AuthorizedKey(), sig))
	require.False(t, VerifyEncoded([]byte("/v1/plugins/widget/versions/1.0.1"), a.AuthorizedKey(), sig))
	require.False(t, VerifyEncoded([]byte(path), a.AuthorizedKey(), "not base64!"))
}

func TestVerifyRejectsMalformedKeys(t *testing.T) {
	a, _ := testSigners(t)
	sig, err := a.Sign("/v1/plugins/foo")
	require.NoError(t, err)

	require.False(t, VerifyEncoded([]byte("/v1/plugins/foo"), "", sig))
	require.False(t, VerifyEncoded([]byte("/v1/plugins/foo"), "ssh-rsa garbage", sig))
	require.False(t, VerifyEncoded([]byte("/v1/plugins/foo"), "key-1", sig))

	_, err = ParsePublicKey("ssh-rsa garbage")
	require.ErrorIs(t, err, ErrMalformedKey)
}

func TestParsePublicKeyRejectsNonRSA(t *testing.T) {
	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(edPub)
	require.NoError(t, err)

	_, err = ParsePublicKey(string(ssh.MarshalAuthorizedKey(sshPub)))
	require.ErrorIs(t, err, ErrUnsupportedKey)
}

func TestParseSignerPKCS1(t *testing.T) {
	a, _ := testSigners(t)
	block := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(a.key),
	})

	parsed, err := ParseSigner(block)
	require.NoError(t, err)
	require.Equal(t, a.AuthorizedKey(), parsed.AuthorizedKey())

	_, err = ParseSigner([]byte("not a key"))
	require.Error(t, err)
}

func TestSignVerifyProperty(t *testing.T) {
	a, b := testSigners(t)

	rapid.Check(t, func(t *rapid.T) {
		msg := rapid.StringMatching(`/v1/plugins/[a-z0-9_-]{1,20}(/versions/[0-9.]{1,10})?`).Draw(t, "path")

		encoded, err := a.Sign(msg)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		sig, _ := base64.StdEncoding.DecodeString(encoded)

		if !Verify([]byte(msg), a.AuthorizedKey(), sig) {
			t.Fatalf("valid signature rejected for %q", msg)
		}
		if Verify([]byte(msg), b.AuthorizedKey(), sig) {
			t.Fatalf("signature accepted for the wrong key")
		}
		if Verify([]byte(msg+"x"), a.AuthorizedKey(), sig) {
			t.Fatalf("signature accepted for a mutated message")
		}

		idx := rapid.IntRange(0, len(sig)-1).Draw(t, "idx")
		bit := rapid.IntRange(0, 7).Draw(t, "bit")
		mutated := append([]byte(nil), sig...)
		mutated[idx] ^= 1 << bit
		if Verify([]byte(msg), a.AuthorizedKey(), mutated) {
			t.Fatalf("mutated signature accepted")
		}
	})
}
