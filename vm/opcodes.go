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

package vm

import (
	"strconv"

	"github.com/pkg/errors"
)

// Opcode is the operation selected by the two low decimal digits of an
// instruction word.
type Opcode Cell

// Intcode opcodes.
const (
	OpAdd                Opcode = 1
	OpMul                Opcode = 2
	OpIn                 Opcode = 3
	OpOut                Opcode = 4
	OpJumpIfTrue         Opcode = 5
	OpJumpIfFalse        Opcode = 6
	OpLessThan           Opcode = 7
	OpEquals             Opcode = 8
	OpAdjustRelativeBase Opcode = 9
	OpHalt               Opcode = 99
)

var opcodes = [...]struct {
	name  string
	arity int
}{
	OpAdd:                {"add", 3},
	OpMul:                {"mul", 3},
	OpIn:                 {"in", 1},
	OpOut:                {"out", 1},
	OpJumpIfTrue:         {"jt", 2},
	OpJumpIfFalse:        {"jf", 2},
	OpLessThan:           {"lt", 3},
	OpEquals:             {"eq", 3},
	OpAdjustRelativeBase: {"arb", 1},
	OpHalt:               {"hlt", 0},
}

// Valid returns true if op is a known opcode.
func (op Opcode) Valid() bool {
	return op >= 0 && int(op) < len(opcodes) && opcodes[op].name != ""
}

// Arity returns the number of operands of op.
func (op Opcode) Arity() int {
	if !op.Valid() {
		return 0
	}
	return opcodes[op].arity
}

// String returns the assembler mnemonic for op.
func (op Opcode) String() string {
	if !op.Valid() {
		return "op(" + strconv.Itoa(int(op)) + ")"
	}
	return opcodes[op].name
}

// OpcodeByName returns the opcode for the given mnemonic.
func OpcodeByName(name string) (Opcode, bool) {
	op, ok := opcodeIndex[name]
	return op, ok
}

var opcodeIndex = make(map[string]Opcode)

func init() {
	for i, v := range opcodes {
		if v.name != "" {
			opcodeIndex[v.name] = Opcode(i)
		}
	}
}

// Mode is an operand addressing mode.
type Mode Cell

// Addressing modes.
const (
	ModePosition Mode = iota
	ModeImmediate
	ModeRelative
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Opcode
	Modes [3]Mode
}

// Word encodes ins back into an instruction word.
func (ins Instruction) Word() Cell {
	return Cell(ins.Op) + 100*Cell(ins.Modes[0]) + 1000*Cell(ins.Modes[1]) + 10000*Cell(ins.Modes[2])
}

// Decode decodes an instruction word. Missing mode digits default to
// ModePosition.
func Decode(word Cell) (Instruction, error) {
	var ins Instruction
	if word < 0 {
		return ins, errors.Wrapf(ErrInvalidOpcode, "%d", word)
	}
	ins.Op = Opcode(word % 100)
	if !ins.Op.Valid() {
		return ins, errors.Wrapf(ErrInvalidOpcode, "%d", word)
	}
	m := word / 100
	for n := range ins.Modes {
		d := Mode(m % 10)
		if d > ModeRelative {
			return ins, errors.Wrapf(ErrInvalidOpcode, "%d: bad mode digit %d", word, d)
		}
		ins.Modes[n] = d
		m /= 10
	}
	if m != 0 {
		return ins, errors.Wrapf(ErrInvalidOpcode, "%d: too many mode digits", word)
	}
	return ins, nil
}
