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

package vm_test

import (
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestMemory(t *testing.T) {
	m := vm.NewMemory(C{1, 0, 3})
	if v := m.Read(1 << 40); v != 0 {
		t.Errorf("unwritten cell reads %d", v)
	}
	m.Write(1<<40, -7)
	if v := m.Read(1 << 40); v != -7 {
		t.Errorf("read back %d, expected -7", v)
	}
	m.Write(1<<40, 0)
	if sz := m.Size(); sz != 3 {
		t.Errorf("bad size %d", sz)
	}
	for _, d := range []struct {
		min  int
		want []vm.Cell
	}{
		{0, []vm.Cell{1, 0, 3}},
		{5, []vm.Cell{1, 0, 3, 0, 0}},
	} {
		got, err := m.Tape(d.min)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(d.want, got); diff != "" {
			t.Errorf("Tape(%d) mismatch (-want +got):\n%s", d.min, diff)
		}
	}
	if _, err := m.Tape(vm.MaxTapeSize + 1); errors.Cause(err) != vm.ErrTapeTooLarge {
		t.Errorf("unexpected error %v", err)
	}
	m.Write(1<<40, 1)
	if _, err := m.Tape(0); errors.Cause(err) != vm.ErrTapeTooLarge {
		t.Errorf("unexpected error %v", err)
	}
}

func TestMemory_Digest(t *testing.T) {
	a := vm.NewMemory(C{1, 2, 3})
	b := vm.NewMemory(C{1, 2, 3, 0, 0})
	if a.Digest() != b.Digest() {
		t.Error("trailing zeros change the digest")
	}
	b.Write(100, 1)
	if a.Digest() == b.Digest() {
		t.Error("same digest for different memories")
	}
	b.Write(100, 0)
	if a.Digest() != b.Digest() {
		t.Error("zeroed cell changes the digest")
	}
	if vm.NewMemory(C{1, 2}).Digest() == vm.NewMemory(C{2, 1}).Digest() {
		t.Error("digest ignores addresses")
	}
}

func TestOperand(t *testing.T) {
	m := vm.NewMemory(C{10, 20, 30, 40})
	data := []struct {
		op    vm.Operand
		rb    vm.Cell
		addr  vm.Cell
		value vm.Cell
		err   error
	}{
		{vm.Operand{vm.ModePosition, 2}, 0, 2, 30, nil},
		{vm.Operand{vm.ModePosition, 2}, 100, 2, 30, nil},
		{vm.Operand{vm.ModeRelative, 2}, 1, 3, 40, nil},
		{vm.Operand{vm.ModeRelative, -1}, 1, 0, 10, nil},
		{vm.Operand{vm.ModeRelative, 2}, 1000, 1002, 0, nil},
		{vm.Operand{vm.ModeImmediate, 2}, 0, 0, 2, vm.ErrInvalidWriteTarget},
		{vm.Operand{vm.ModePosition, -1}, 0, 0, 0, vm.ErrInvalidAddress},
		{vm.Operand{vm.ModeRelative, -3}, 2, 0, 0, vm.ErrInvalidAddress},
	}
	for _, d := range data {
		addr, err := d.op.Addr(d.rb)
		if errors.Cause(err) != d.err {
			t.Errorf("%v rb=%d: bad error %v, expected %v", d.op, d.rb, err, d.err)
			continue
		}
		if err == nil && addr != d.addr {
			t.Errorf("%v rb=%d: bad address %d, expected %d", d.op, d.rb, addr, d.addr)
		}
		v, err := d.op.Value(m, d.rb)
		if d.op.Mode == vm.ModeImmediate {
			if err != nil {
				t.Errorf("%v: %v", d.op, err)
			}
		} else if errors.Cause(err) != d.err {
			t.Errorf("%v rb=%d: bad error %v, expected %v", d.op, d.rb, err, d.err)
			continue
		}
		if err == nil && v != d.value {
			t.Errorf("%v rb=%d: bad value %d, expected %d", d.op, d.rb, v, d.value)
		}
	}
}

func TestDecode(t *testing.T) {
	data := []struct {
		word vm.Cell
		ins  vm.Instruction
		err  bool
	}{
		{1, vm.Instruction{Op: vm.OpAdd}, false},
		{1002, vm.Instruction{vm.OpMul, [3]vm.Mode{vm.ModePosition, vm.ModeImmediate, vm.ModePosition}}, false},
		{21107, vm.Instruction{vm.OpLessThan, [3]vm.Mode{vm.ModeImmediate, vm.ModeImmediate, vm.ModeRelative}}, false},
		{204, vm.Instruction{vm.OpOut, [3]vm.Mode{vm.ModeRelative}}, false},
		{99, vm.Instruction{Op: vm.OpHalt}, false},
		{0, vm.Instruction{}, true},
		{10, vm.Instruction{}, true},
		{98, vm.Instruction{}, true},
		{-99, vm.Instruction{}, true},
		{399, vm.Instruction{}, true},
		{100001, vm.Instruction{}, true},
	}
	for _, d := range data {
		ins, err := vm.Decode(d.word)
		if d.err {
			if errors.Cause(err) != vm.ErrInvalidOpcode {
				t.Errorf("Decode(%d): expected ErrInvalidOpcode, got %v", d.word, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Decode(%d): %v", d.word, err)
			continue
		}
		if ins != d.ins {
			t.Errorf("Decode(%d) = %v, expected %v", d.word, ins, d.ins)
		}
		if w := ins.Word(); w != d.word {
			t.Errorf("Word() = %d, expected %d", w, d.word)
		}
	}
}

func TestOpcodes(t *testing.T) {
	arity := map[vm.Opcode]int{
		vm.OpAdd: 3, vm.OpMul: 3, vm.OpIn: 1, vm.OpOut: 1, vm.OpJumpIfTrue: 2, vm.OpJumpIfFalse: 2,
		vm.OpLessThan: 3, vm.OpEquals: 3, vm.OpAdjustRelativeBase: 1, vm.OpHalt: 0,
	}
	for op, n := range arity {
		if !op.Valid() {
			t.Errorf("%d: not valid", op)
		}
		if op.Arity() != n {
			t.Errorf("%v: bad arity %d, expected %d", op, op.Arity(), n)
		}
		if got, ok := vm.OpcodeByName(op.String()); !ok || got != op {
			t.Errorf("OpcodeByName(%q) = %d, %v", op.String(), got, ok)
		}
	}
	if vm.Opcode(42).Valid() {
		t.Error("opcode 42 is valid")
	}
	if s := vm.Opcode(42).String(); s != "op(42)" {
		t.Errorf("bad name %q for opcode 42", s)
	}
}
