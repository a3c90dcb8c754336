// Copyright (C) 2024 the swai authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package compr wraps third-party compression libraries behind a single
// name-dispatched interface, adapted from the teacher's compr package for
// the unknown-output-size case: a module's custom sections carry no
// declared decompressed length, so decoding always grows a fresh buffer
// rather than decompressing into one of a known size.
package compr

import (
	"fmt"
	"runtime"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

var zstdDecoder *zstd.Decoder

func init() {
	d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdDecoder = d
}

// Name identifies one of the supported algorithms.
type Name string

const (
	Zstd Name = "zstd"
	S2   Name = "s2"
)

// Decode decompresses src using the named algorithm. An unrecognized name
// is returned as an error rather than a panic, since it may originate
// from untrusted module content (a custom section's name).
func Decode(name Name, src []byte) ([]byte, error) {
	switch name {
	case Zstd:
		out, err := zstdDecoder.DecodeAll(src, nil)
		if err != nil {
			return nil, fmt.Errorf("compr.Decode: zstd: %w", err)
		}
		return out, nil
	case S2:
		out, err := s2.Decode(nil, src)
		if err != nil {
			return nil, fmt.Errorf("compr.Decode: s2: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("compr.Decode: unknown algorithm %q", name)
	}
}
