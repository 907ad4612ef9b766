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

// Package base85 implements the RFC 1924 base85 encoding used to carry
// artifact tarballs as JSON strings. It is byte compatible with Python's
// base64.b85encode / b85decode without padding.
package base85

import (
	"encoding/binary"
	"math"
	"strconv"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!#$%&()*+-;<=>?@^_`{|}~"

const invalid = 0xFF

var decodeMap [256]byte

func init() {
	for i := range decodeMap {
		decodeMap[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		decodeMap[alphabet[i]] = byte(i)
	}
}

// CorruptInputError reports the offset of the first illegal input byte.
type CorruptInputError int64

func (e CorruptInputError) Error() string {
	return "illegal base85 data at input byte " + strconv.FormatInt(int64(e), 10)
}

// EncodedLen returns the length of the encoding of n source bytes.
func EncodedLen(n int) int {
	l := n / 4 * 5
	if r := n % 4; r > 0 {
		l += r + 1
	}
	return l
}

// Encode returns the base85 encoding of src. A trailing group of n bytes
// is written as n+1 characters, so no padding is added.
func Encode(src []byte) string {
	dst := make([]byte, EncodedLen(len(src)))
	di := 0
	for len(src) > 0 {
		var word [4]byte
		n := copy(word[:], src)
		src = src[n:]

		v := binary.BigEndian.Uint32(word[:])
		var group [5]byte
		for i := 4; i >= 0; i-- {
			group[i] = alphabet[v%85]
			v /= 85
		}

		m := 5
		if n < 4 {
			m = n + 1
		}
		di += copy(dst[di:], group[:m])
	}
	return string(dst)
}

// Decode returns the bytes represented by the base85 string s.
func Decode(s string) ([]byte, error) {
	if len(s)%5 == 1 {
		return nil, CorruptInputError(len(s) - 1)
	}

	dst := make([]byte, 0, len(s)/5*4+3)
	for i := 0; i < len(s); i += 5 {
		group := s[i:min(i+5, len(s))]

		var acc uint64
		for j := 0; j < 5; j++ {
			d := byte(84)
			if j < len(group) {
				d = decodeMap[group[j]]
				if d == invalid {
					return nil, CorruptInputError(i + j)
				}
			}
			acc = acc*85 + uint64(d)
		}
		if acc > math.MaxUint32 {
			return nil, CorruptInputError(i)
		}

		var word [4]byte
		binary.BigEndian.PutUint32(word[:], uint32(acc))
		dst = append(dst, word[:len(group)-1]...)
	}
	return dst, nil
}
