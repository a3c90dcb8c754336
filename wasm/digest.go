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

package wasm

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Digest is a content-addressed fingerprint of a Module's decoded shape:
// the number of entries in each section plus every FunctionType's
// typeKey, hashed with blake2b. Two modules with the same Digest have
// the same signature set and section cardinalities; it is not a hash of
// the original bytes (custom sections and code bodies are not mixed in).
type Digest [32]byte

func (d Digest) String() string { return fmt.Sprintf("%x", [32]byte(d)) }

// Digest computes m's Digest, grounded on the teacher's blake2b-based
// content addressing in fsenv.go / ion/blockfmt/index.go.
func (m *Module) Digest() Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // only fails for an unsupported key size, which we never pass
	}

	var buf [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(uint64(len(m.Types)))
	for _, ft := range m.Types {
		lo, hi := typeKey(ft)
		writeUint(lo)
		writeUint(hi)
	}
	writeUint(uint64(len(m.Imports)))
	writeUint(uint64(len(m.Functions)))
	writeUint(uint64(len(m.Tables)))
	writeUint(uint64(len(m.Memories)))
	writeUint(uint64(len(m.Globals)))
	writeUint(uint64(len(m.Exports)))
	writeUint(uint64(len(m.Elements)))
	writeUint(uint64(len(m.Code)))
	writeUint(uint64(len(m.Data)))

	var out Digest
	h.Sum(out[:0])
	return out
}
