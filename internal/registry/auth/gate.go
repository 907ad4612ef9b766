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

// Package auth decides whether a request may mutate a plugin.
package auth

import (
	"fmt"

	"github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/pkg/signature"
)

// Reason identifies which rule denied a request.
type Reason string

const (
	ReasonMissingCredential Reason = "missing_credential"
	ReasonMissingSignature  Reason = "missing_signature"
	ReasonNotMaintainer     Reason = "not_maintainer"
	ReasonBadSignature      Reason = "bad_signature"
)

// Credentials are the caller supplied gate headers. Empty means absent.
type Credentials struct {
	PublicKey string
	Signature string
}

// Denial is the error returned for a rejected request.
type Denial struct {
	Reason  Reason
	Message string
}

func (d *Denial) Error() string {
	return d.Message
}

// Verifier checks a base64 signature over message for publicKey.
type Verifier func(message []byte, publicKey, encodedSignature string) bool

type Gate struct {
	verify Verifier
}

func NewGate() *Gate {
	return &Gate{verify: signature.VerifyEncoded}
}

// NewGateWithVerifier is NewGate with a custom verifier.
func NewGateWithVerifier(verify Verifier) *Gate {
	return &Gate{verify: verify}
}

// Authorize applies the full rule set for a mutation under an existing
// plugin. Rules are evaluated in order and the first failure wins.
func (g *Gate) Authorize(cred Credentials, path string, maintainers []model.Maintainer) error {
	if cred.PublicKey == "" {
		return &Denial{Reason: ReasonMissingCredential, Message: "Authorization header not set."}
	}
	if cred.Signature == "" {
		return &Denial{Reason: ReasonMissingSignature, Message: "X-Signature header not set."}
	}
	if !isMaintainer(cred.PublicKey, maintainers) {
		return &Denial{Reason: ReasonNotMaintainer, Message: "Key not in maintainers whitelist."}
	}
	if !g.verify([]byte(path), cred.PublicKey, cred.Signature) {
		return &Denial{
			Reason:  ReasonBadSignature,
			Message: fmt.Sprintf("Signature %s is not valid for public key %s", cred.Signature, cred.PublicKey),
		}
	}
	return nil
}

// AuthorizeCreate applies the create rule set: any credential is enough.
func (g *Gate) AuthorizeCreate(cred Credentials) error {
	if cred.PublicKey == "" {
		return &Denial{Reason: ReasonMissingCredential, Message: "Authorization header not provided."}
	}
	return nil
}

func isMaintainer(publicKey string, maintainers []model.Maintainer) bool {
	for _, m := range maintainers {
		if m.SSHKey == publicKey {
			return true
		}
	}
	return false
}
