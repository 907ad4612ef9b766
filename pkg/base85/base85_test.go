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

package base85

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// vectors produced by Python's base64.b85encode
var vectors = []struct {
	raw     []byte
	encoded string
}{
	{[]byte{}, ""},
	{[]byte{0x00}, "00"},
	{[]byte("hello"), "Xk~0{Zv"},
	{[]byte{0xff, 0xff, 0xff, 0xff}, "|NsC0"},
	{[]byte("plugin tarball"), "aBOvFX>K5NVRB+&Y-|"},
	{[]byte{0, 1, 2, 3, 4, 5, 6}, "009C61O)~"},
}

func TestEncode(t *testing.T) {
	for _, v := range vectors {
		require.Equal(t, v.encoded, Encode(v.raw), "encode %q", v.raw)
		require.Equal(t, len(v.encoded), EncodedLen(len(v.raw)))
	}
}

func TestDecode(t *testing.T) {
	for _, v := range vectors {
		got, err := Decode(v.encoded)
		require.NoError(t, err)
		require.Equal(t, v.raw, got, "decode %q", v.encoded)
	}
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int64
	}{
		{"char outside alphabet", "Xk~0\"Zv", 4},
		{"dangling single char", "Xk~0{Z", 5},
		{"group overflow", "~~~~~", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			require.Error(t, err)
			var corrupt CorruptInputError
			require.ErrorAs(t, err, &corrupt)
			require.Equal(t, tt.offset, int64(corrupt))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOf(rapid.Byte()).Draw(t, "raw")
		got, err := Decode(Encode(raw))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(got) != string(raw) {
			t.Fatalf("round trip mismatch: %x != %x", got, raw)
		}
	})
}
