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

package auth

import (
	"testing"

	"github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/internal/registry/registrytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const path = "/v1/plugins/widget/versions/1.0.0"

func TestGate_Authorize(t *testing.T) {
	k1, k2, _ := registrytest.Signers(t)
	maintainers := []model.Maintainer{{SSHKey: k1.AuthorizedKey()}}
	gate := NewGate()

	tests := []struct {
		name   string
		cred   Credentials
		reason Reason
	}{
		{
			name:   "no credential",
			cred:   Credentials{Signature: registrytest.Sign(t, k1, path)},
			reason: ReasonMissingCredential,
		},
		{
			name:   "no signature",
			cred:   Credentials{PublicKey: k1.AuthorizedKey()},
			reason: ReasonMissingSignature,
		},
		{
			name:   "not a maintainer",
			cred:   Credentials{PublicKey: k2.AuthorizedKey(), Signature: registrytest.Sign(t, k2, path)},
			reason: ReasonNotMaintainer,
		},
		{
			name:   "signature from another key",
			cred:   Credentials{PublicKey: k1.AuthorizedKey(), Signature: registrytest.Sign(t, k2, path)},
			reason: ReasonBadSignature,
		},
		{
			name:   "signature over another path",
			cred:   Credentials{PublicKey: k1.AuthorizedKey(), Signature: registrytest.Sign(t, k1, "/v1/plugins/widget")},
			reason: ReasonBadSignature,
		},
		{
			name:   "garbage signature",
			cred:   Credentials{PublicKey: k1.AuthorizedKey(), Signature: "not base64!"},
			reason: ReasonBadSignature,
		},
		{
			name: "valid",
			cred: Credentials{PublicKey: k1.AuthorizedKey(), Signature: registrytest.Sign(t, k1, path)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(tt.cred, path, maintainers)
			if tt.reason == "" {
				require.NoError(t, err)
				return
			}
			var denial *Denial
			require.ErrorAs(t, err, &denial)
			assert.Equal(t, tt.reason, denial.Reason)
		})
	}
}

func TestGate_Messages(t *testing.T) {
	gate := NewGateWithVerifier(func([]byte, string, string) bool { return false })
	maintainers := []model.Maintainer{{SSHKey: "ssh-rsa K1"}}

	assert.EqualError(t, gate.Authorize(Credentials{}, path, maintainers), "Authorization header not set.")
	assert.EqualError(t, gate.Authorize(Credentials{PublicKey: "ssh-rsa K1"}, path, maintainers), "X-Signature header not set.")
	assert.EqualError(t, gate.Authorize(Credentials{PublicKey: "ssh-rsa K2", Signature: "c2ln"}, path, maintainers), "Key not in maintainers whitelist.")
	assert.EqualError(t, gate.Authorize(Credentials{PublicKey: "ssh-rsa K1", Signature: "c2ln"}, path, maintainers),
		"Signature c2ln is not valid for public key ssh-rsa K1")
}

func TestGate_WhitelistBeforeVerification(t *testing.T) {
	called := false
	gate := NewGateWithVerifier(func([]byte, string, string) bool {
		called = true
		return true
	})

	err := gate.Authorize(Credentials{PublicKey: "ssh-rsa K2", Signature: "c2ln"}, path, nil)
	require.Error(t, err)
	assert.False(t, called)
}

func TestGate_AuthorizeCreate(t *testing.T) {
	gate := NewGate()
	assert.EqualError(t, gate.AuthorizeCreate(Credentials{}), "Authorization header not provided.")
	assert.NoError(t, gate.AuthorizeCreate(Credentials{PublicKey: "anything"}))
}
