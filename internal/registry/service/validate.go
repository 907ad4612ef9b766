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

package service

import (
	"strings"
	"unicode/utf8"

	"github.com/go-arcade/registry/internal/registry/model"
)

func validateName(raw string) (string, error) {
	name := model.NormalizeName(raw)
	if name == "" {
		return "", invalidArgument("Plugin name must not be empty.")
	}
	if utf8.RuneCountInString(name) > model.MaxNameLen {
		return "", invalidArgument("Plugin name must be at most %d characters.", model.MaxNameLen)
	}
	if strings.Contains(name, "/") {
		return "", invalidArgument("Plugin name must not contain '/'.")
	}
	if dotsOnly(name) {
		return "", invalidArgument("Plugin name must not consist only of dots.")
	}
	return name, nil
}

func validateLabel(label string) error {
	if label == "" {
		return invalidArgument("Version must not be empty.")
	}
	if utf8.RuneCountInString(label) > model.MaxVersionLen {
		return invalidArgument("Version must be at most %d characters.", model.MaxVersionLen)
	}
	if strings.Contains(label, "/") {
		return invalidArgument("Version must not contain '/'.")
	}
	if dotsOnly(label) {
		return invalidArgument("Version must not consist only of dots.")
	}
	return nil
}

// dotsOnly reports names like "." and ".." that collapse as path segments.
func dotsOnly(s string) bool {
	return strings.Trim(s, ".") == ""
}

func validateMaintainer(email *string, sshKey string) error {
	if sshKey == "" {
		return invalidArgument("Maintainer ssh_key must not be empty.")
	}
	if utf8.RuneCountInString(sshKey) > model.MaxSSHKeyLen {
		return invalidArgument("Maintainer ssh_key must be at most %d characters.", model.MaxSSHKeyLen)
	}
	if email != nil && utf8.RuneCountInString(*email) > model.MaxEmailLen {
		return invalidArgument("Maintainer email must be at most %d characters.", model.MaxEmailLen)
	}
	return nil
}
