// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/intcode/internal/ici"
	"github.com/db47h/intcode/vm"
)

// ErrAsm is the error type returned by Assemble. Each entry holds the position
// of the error in the source and the error message.
type ErrAsm []struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsm) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Pos.String())
		b.WriteString(": ")
		b.WriteString(err.Msg)
	}
	return b.String()
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting tape and error if any.
//
// Then name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries.
func Assemble(name string, r io.Reader) ([]vm.Cell, error) {
	p := newParser()
	return p.Parse(name, r)
}

// Disassemble writes a disassembly of the instruction at position pc in the
// given tape to the specified io.Writer and returns the position of the next
// instruction and any write error. Words that do not decode to a valid
// instruction are written as a .dat directive.
func Disassemble(tape []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew := ici.NewErrWriter(w)

	ins, derr := vm.Decode(tape[pc])
	if derr != nil {
		io.WriteString(ew, ".dat ")
		io.WriteString(ew, strconv.FormatInt(int64(tape[pc]), 10))
		return pc + 1, ew.Err
	}
	io.WriteString(ew, ins.Op.String())
	pc++
	for n := 0; n < ins.Op.Arity(); n++ {
		ew.Write([]byte{' '})
		if pc >= len(tape) {
			io.WriteString(ew, "???")
			continue
		}
		switch ins.Modes[n] {
		case vm.ModeImmediate:
			ew.Write([]byte{'#'})
		case vm.ModeRelative:
			ew.Write([]byte{'~'})
		}
		io.WriteString(ew, strconv.FormatInt(int64(tape[pc]), 10))
		pc++
	}
	return pc, ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given tape to the
// specified io.Writer. The base argument specifies the real address of the
// first cell (tape[0]). It will return any write error.
func DisassembleAll(tape []vm.Cell, base int, w io.Writer) error {
	ew := ici.NewErrWriter(w)
	for pc := 0; pc < len(tape); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(tape, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
