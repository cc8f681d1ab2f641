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

// Package asm provides utility functions to assemble and disassemble Intcode
// programs.
//
// Supported assembler mnemonics:
//
//	opcode	asm	args	description
//	------	---	----	-----------------------------------------------
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
// Operands:
//
// The addressing mode of an operand is selected by an optional prefix:
//
//	42	position mode: the value at address 42
//	#42	immediate mode: the value 42
//	~42	relative mode: the value at address rb+42
//
// The mode digits of the instruction word are computed by the assembler.
// Writing to an immediate operand is not rejected by the assembler; the VM
// will report it when the instruction executes.
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space:
//
//	( this is a valid comment )
//	(this is not )
//
// Literals and label/const identifiers:
//
// Input is split at white space. Each word is either a mnemonic, a label
// definition, a directive, or an operand. Operand values are decimal, octal
// (leading 0) or hexadecimal (leading 0x) integers, character literals ('a',
// '\n'), constants defined with .equ, or label names, in which case the value
// is the address of the label.
//
// Labels are defined by prefixing a name with a colon (:loop). Labels can be
// used before they are defined.
//
// Labels with a purely numeric name are local labels. They can be defined
// multiple times and are referenced by appending a '-' or '+' to the name: 1-
// refers to the closest :1 before the reference and 1+ to the closest :1 after
// it.
//
// Directives:
//
//	.dat v		writes the value v at the current address.
//	.org n		sets the current address to n.
//	.equ name v	defines the constant name with value v.
//
// Example:
//
//	( echo input values until a 0 is read )
//	:loop	in val
//		jf val #end
//		out val
//		jt #1 #loop
//	:end	hlt
//	:val	.dat 0
package asm
