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

// Package wasmenv is the minimal execution environment built on top of a
// decoded wasm.Module: it seeds a caller-provided linear memory buffer
// from the module's data segments and locates the start function. Full
// instruction dispatch is out of scope; see SPEC_FULL.md §4.7.
package wasmenv

import (
	"fmt"

	"github.com/swai-project/swai/wasm"
)

// Environment pairs a decoded Module with the bookkeeping the minimal
// initializer needs (how many locals each function declares, computed
// once up front rather than on every LocalsFor call).
type Environment struct {
	Module *wasm.Module
	locals [][]wasm.ValueType
}

// New builds an Environment around mod, precomputing each function's
// flattened local-variable type list (parameters first, then the
// declared locals in the order their runs appear in the code body).
func New(mod *wasm.Module) *Environment {
	env := &Environment{Module: mod, locals: make([][]wasm.ValueType, len(mod.Code))}
	for i, body := range mod.Code {
		env.locals[i] = flattenLocals(mod, i, body)
	}
	return env
}

func flattenLocals(mod *wasm.Module, funcIndex int, body wasm.CodeBody) []wasm.ValueType {
	var types []wasm.ValueType
	if funcIndex < len(mod.Functions) {
		if ft, ok := functionTypeFor(mod, mod.Functions[funcIndex]); ok {
			types = append(types, ft.Params...)
		}
	}
	for _, decl := range body.Locals {
		for i := uint32(0); i < decl.Count; i++ {
			types = append(types, decl.Type)
		}
	}
	return types
}

func functionTypeFor(mod *wasm.Module, typeIdx wasm.Index) (wasm.FunctionType, bool) {
	if int(typeIdx.Value) >= len(mod.Types) {
		return wasm.FunctionType{}, false
	}
	return mod.Types[typeIdx.Value], true
}

// LocalsFor returns the flattened parameter-then-declared-local type list
// for the function at FuncIdx fn, or an error if fn names a function
// the code section has no body for (e.g. an imported function).
func (env *Environment) LocalsFor(fn wasm.Index) ([]wasm.ValueType, error) {
	imported := 0
	for _, imp := range env.Module.Imports {
		if imp.Desc.Kind == wasm.ImportFunc {
			imported++
		}
	}
	i := int(fn.Value) - imported
	if i < 0 || i >= len(env.locals) {
		return nil, fmt.Errorf("wasmenv.LocalsFor: func index %d has no code body", fn.Value)
	}
	return env.locals[i], nil
}

// StartFunc returns the module's declared start function index, failing
// with wasm.ErrNoEntryPoint if none was declared.
func (env *Environment) StartFunc() (wasm.Index, error) {
	if env.Module.Start == nil {
		return wasm.Index{}, fmt.Errorf("wasmenv.StartFunc: %w", wasm.ErrNoEntryPoint)
	}
	return *env.Module.Start, nil
}
