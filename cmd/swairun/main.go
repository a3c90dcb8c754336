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

// Command swairun decodes a module, initializes a linear memory buffer
// from its data segments, and reports the located start function.
// Instruction dispatch for the start function itself is out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/swai-project/swai/internal/ints"
	"github.com/swai-project/swai/wasm"
	"github.com/swai-project/swai/wasmenv"
)

// wasmPageSize is the unit wasm linear memory grows by; a buffer that
// isn't a multiple of it isn't a meaningful approximation of one.
const wasmPageSize = 64 * 1024

var (
	dashnommap  bool
	dashmemsize uint
)

func main() {
	flag.BoolVar(&dashnommap, "no-mmap", false, "read the whole file into memory instead of mapping it")
	flag.UintVar(&dashmemsize, "mem", 64*1024, "linear memory buffer size in bytes")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: swairun [-no-mmap] [-mem bytes] <module-file>")
		os.Exit(2)
	}

	if err := run(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "swairun: %s\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var mod *wasm.Module
	if dashnommap {
		mod, err = wasm.DecodeFile(f)
	} else {
		var closer func() error
		mod, closer, err = wasm.DecodeFileMmap(f)
		if err == nil {
			defer closer()
		}
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	memsize := uint64(dashmemsize)
	if !ints.IsAligned(memsize, wasmPageSize) {
		memsize = ints.AlignUp(memsize, wasmPageSize)
		fmt.Fprintf(os.Stderr, "swairun: rounding -mem up to page-aligned %d bytes\n", memsize)
	}

	env := wasmenv.New(mod)
	buf := make([]byte, memsize)
	start, err := wasmenv.Init(env, buf)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	locals, err := env.LocalsFor(start)
	if err != nil {
		return fmt.Errorf("start function: %w", err)
	}

	fmt.Printf("module     %s\n", path)
	fmt.Printf("digest     %s\n", mod.Digest())
	fmt.Printf("start      %s (%d locals)\n", start, len(locals))
	fmt.Printf("memory     %d bytes initialized\n", len(buf))
	return nil
}
