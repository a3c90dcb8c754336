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

// Command swaidump decodes a module and prints a structural summary of
// its sections.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"github.com/swai-project/swai/wasm"
	"github.com/swai-project/swai/wasmenv"
)

// dumpPageSize is the page granularity swaidump reports data-segment
// footprints in; it matches the default wasm page size, not any actual
// buffer swaidump allocates (it allocates none).
const dumpPageSize = 64 * 1024

type summary struct {
	SessionID string   `json:"session_id"`
	File      string   `json:"file"`
	Digest    string   `json:"digest"`
	Types     int      `json:"types"`
	Imports   int      `json:"imports"`
	Functions int      `json:"functions"`
	Tables    int      `json:"tables"`
	Memories  int      `json:"memories"`
	Globals   int      `json:"globals"`
	Exports   []string `json:"exports"`
	Start     *uint32  `json:"start,omitempty"`
	Elements  int      `json:"elements"`
	Code      int      `json:"code"`
	Data      int      `json:"data"`
	DataPages []string `json:"data_pages,omitempty"`
}

func main() {
	format := flag.String("format", "text", "output format: text or yaml")
	noMmap := flag.Bool("no-mmap", false, "read the whole file into memory instead of mapping it")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: swaidump [-format text|yaml] [-no-mmap] <module-file>")
		os.Exit(2)
	}

	s, err := dump(args[0], *noMmap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "swaidump: %s\n", err)
		os.Exit(1)
	}

	switch *format {
	case "text":
		printText(s)
	case "yaml":
		out, err := yaml.Marshal(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "swaidump: marshal: %s\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	default:
		fmt.Fprintf(os.Stderr, "swaidump: unknown -format %q\n", *format)
		os.Exit(2)
	}
}

func dump(path string, noMmap bool) (summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return summary{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var mod *wasm.Module
	if noMmap {
		mod, err = wasm.DecodeFile(f)
	} else {
		var closer func() error
		mod, closer, err = wasm.DecodeFileMmap(f)
		if err == nil {
			defer closer()
		}
	}
	if err != nil {
		return summary{}, fmt.Errorf("decode %s: %w", path, err)
	}

	s := summary{
		SessionID: uuid.NewString(),
		File:      path,
		Digest:    mod.Digest().String(),
		Types:     len(mod.Types),
		Imports:   len(mod.Imports),
		Functions: len(mod.Functions),
		Tables:    len(mod.Tables),
		Memories:  len(mod.Memories),
		Globals:   len(mod.Globals),
		Elements:  len(mod.Elements),
		Code:      len(mod.Code),
		Data:      len(mod.Data),
	}
	for _, e := range mod.Exports {
		s.Exports = append(s.Exports, e.Name)
	}
	if mod.Start != nil {
		v := mod.Start.Value
		s.Start = &v
	}
	for _, r := range wasmenv.New(mod).DataFootprint(dumpPageSize) {
		s.DataPages = append(s.DataPages, fmt.Sprintf("[%d,%d)", r.Start, r.End))
	}
	return s, nil
}

func printText(s summary) {
	fmt.Printf("session    %s\n", s.SessionID)
	fmt.Printf("file       %s\n", s.File)
	fmt.Printf("digest     %s\n", s.Digest)
	fmt.Printf("types      %d\n", s.Types)
	fmt.Printf("imports    %d\n", s.Imports)
	fmt.Printf("functions  %d\n", s.Functions)
	fmt.Printf("tables     %d\n", s.Tables)
	fmt.Printf("memories   %d\n", s.Memories)
	fmt.Printf("globals    %d\n", s.Globals)
	fmt.Printf("elements   %d\n", s.Elements)
	fmt.Printf("code       %d\n", s.Code)
	fmt.Printf("data       %d\n", s.Data)
	if s.Start != nil {
		fmt.Printf("start      func#%d\n", *s.Start)
	} else {
		fmt.Printf("start      (none)\n")
	}
	for _, e := range s.Exports {
		fmt.Printf("export     %s\n", e)
	}
	for _, p := range s.DataPages {
		fmt.Printf("data page  %s\n", p)
	}
}
