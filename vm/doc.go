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

// Package vm implements an Intcode virtual machine.
//
// An Instance interprets a tape of integer cells loaded into a sparse,
// unbounded memory. Instructions are encoded as decimal words: the two low
// digits select the opcode and the hundreds, thousands and ten-thousands
// digits select the addressing mode of the first, second and third operand:
//
//	opcode	asm	args	description
//	------	---	----	-----------------------------------------------------
//	1	add	a b c	c = a + b
//	2	mul	a b c	c = a * b
//	3	in	a	a = next input value
//	4	out	a	emit a
//	5	jt	a b	if a != 0, jump to b
//	6	jf	a b	if a == 0, jump to b
//	7	lt	a b c	c = 1 if a < b else 0
//	8	eq	a b c	c = 1 if a == b else 0
//	9	arb	a	relative base += a
//	99	hlt		halt
//
//	mode	name		read		write
//	----	----		----		-----
//	0	position	mem[n]		mem[n]
//	1	immediate	n		invalid
//	2	relative	mem[rb+n]	mem[rb+n]
//
// Instances can be driven in three ways:
//
//   - Run executes until the program halts, drawing input values from the
//     arguments and then from the configured CellReader, forwarding output values
//     to the configured CellWriter. This is the blocking, single threaded mode.
//   - Step executes a single instruction and reports whether the instance is
//     waiting for input or has just produced a value. Any scheduler can use it
//     together with Feed and Outputs.
//   - RunCooperative connects the instance to message Ports so that several
//     instances can be run concurrently and chained together (see package
//     circuit).
//
// Faults (invalid opcodes, writes to immediate operands, negative addresses,
// exhausted input) abort the run and are reported as errors wrapping one of
// the ErrXXX values of this package. Use errors.Cause from
// github.com/pkg/errors to test for them.
package vm
