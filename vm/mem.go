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
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// MaxTapeSize is the largest number of cells Tape will return.
const MaxTapeSize = 1 << 24

// ErrTapeTooLarge is returned by Tape when the dense copy of a memory would
// exceed MaxTapeSize cells.
var ErrTapeTooLarge = errors.New("tape too large")

// Memory is the sparse memory of an Instance. Addresses that were never
// written read as 0.
type Memory map[Cell]Cell

// NewMemory returns a new Memory initialized with a copy of the given tape.
func NewMemory(tape []Cell) Memory {
	m := make(Memory, len(tape))
	for addr, v := range tape {
		if v != 0 {
			m[Cell(addr)] = v
		}
	}
	return m
}

// Read returns the value at address addr.
func (m Memory) Read(addr Cell) Cell {
	return m[addr]
}

// Write sets the value at address addr.
func (m Memory) Write(addr, v Cell) {
	if v == 0 {
		// unset and zero cells are indistinguishable; keep the map small.
		delete(m, addr)
		return
	}
	m[addr] = v
}

func (m Memory) addresses() []Cell {
	a := make([]Cell, 0, len(m))
	for addr := range m {
		a = append(a, addr)
	}
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	return a
}

// Size returns 1 + the highest address holding a non-zero value.
func (m Memory) Size() int {
	var sz Cell
	for addr := range m {
		if addr >= sz {
			sz = addr + 1
		}
	}
	return int(sz)
}

// Tape returns a dense copy of memory, from address 0 to the highest address
// holding a non-zero value. The result is at least minSize cells long. It fails
// with ErrTapeTooLarge if that copy would hold more than MaxTapeSize cells.
func (m Memory) Tape(minSize int) ([]Cell, error) {
	sz := m.Size()
	if minSize > sz {
		sz = minSize
	}
	if sz > MaxTapeSize {
		return nil, errors.Wrapf(ErrTapeTooLarge, "%d cells", sz)
	}
	t := make([]Cell, sz)
	for addr, v := range m {
		if addr >= 0 {
			t[addr] = v
		}
	}
	return t, nil
}

// Digest returns the BLAKE3 hash of the memory contents. Memories that read
// the same at every address have the same digest.
func (m Memory) Digest() [32]byte {
	h := blake3.New()
	var b [16]byte
	for _, addr := range m.addresses() {
		binary.LittleEndian.PutUint64(b[:8], uint64(addr))
		binary.LittleEndian.PutUint64(b[8:], uint64(m[addr]))
		h.Write(b[:])
	}
	var d [32]byte
	h.Sum(d[:0])
	return d
}

// Operand is an instruction operand tagged with its addressing mode.
type Operand struct {
	Mode Mode
	Raw  Cell
}

// Addr returns the address the operand designates, given the relative base
// rb. It fails with ErrInvalidWriteTarget for immediate operands and with
// ErrInvalidAddress if the resulting address is negative.
func (o Operand) Addr(rb Cell) (Cell, error) {
	var addr Cell
	switch o.Mode {
	case ModePosition:
		addr = o.Raw
	case ModeRelative:
		addr = rb + o.Raw
	case ModeImmediate:
		return 0, errors.Wrapf(ErrInvalidWriteTarget, "operand %d", o.Raw)
	default:
		return 0, errors.Wrapf(ErrInvalidOpcode, "operand mode %d", o.Mode)
	}
	if addr < 0 {
		return 0, errors.Wrapf(ErrInvalidAddress, "%d (%s %d, rb %d)", addr, o.Mode, o.Raw, rb)
	}
	return addr, nil
}

// Value returns the value the operand reads from memory m, given the relative
// base rb.
func (o Operand) Value(m Memory, rb Cell) (Cell, error) {
	if o.Mode == ModeImmediate {
		return o.Raw, nil
	}
	addr, err := o.Addr(rb)
	if err != nil {
		return 0, err
	}
	return m.Read(addr), nil
}
