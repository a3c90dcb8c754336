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

import "github.com/swai-project/swai/internal/compr"

// compressedCustomSections maps the custom section names this decoder
// knows to carry compressed debug payloads to the algorithm used to pack
// them, mirroring the convention DWARF producers use for
// ".debug_info.zstd"-style sections.
var compressedCustomSections = map[string]compr.Name{
	"swai.debug.zstd": compr.Zstd,
	"swai.debug.s2":   compr.S2,
}

// decompressCustomSection returns payload unchanged unless name is one of
// compressedCustomSections, in which case it is decompressed. A
// decompression failure falls back to returning the raw payload rather
// than failing the whole lookup — debug information is diagnostic, not
// load-bearing.
func decompressCustomSection(name string, payload []byte) []byte {
	alg, ok := compressedCustomSections[name]
	if !ok {
		return payload
	}
	out, err := compr.Decode(alg, payload)
	if err != nil {
		return payload
	}
	return out
}
