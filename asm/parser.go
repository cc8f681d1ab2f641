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
	"io"
	"strconv"
	"text/scanner"
	"unicode"

	"github.com/db47h/intcode/vm"
)

// maxErrors is the maximum number of errors reported by Assemble.
const maxErrors = 10

var modeWeight = [...]vm.Cell{100, 1000, 10000}

func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type label struct {
	labelSite
	uses []labelSite
}

type parser struct {
	i      []vm.Cell
	pc     int
	size   int
	s      scanner.Scanner
	labels map[string]*label
	consts map[string]labelSite
	locals map[string]int
	fwd    map[string][]labelSite
	errs   ErrAsm

	// instruction being assembled
	ins   int
	argN  int
	nargs int
}

func newParser() *parser {
	p := new(parser)
	p.labels = make(map[string]*label)
	p.consts = make(map[string]labelSite)
	p.locals = make(map[string]int)
	p.fwd = make(map[string][]labelSite)
	return p
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, struct {
			Pos scanner.Position
			Msg string
		}{pos, msg})
	}
}

func (p *parser) write(v vm.Cell) {
	for p.pc >= len(p.i) {
		p.i = append(p.i, make([]vm.Cell, 256)...)
	}
	p.i[p.pc] = v
	p.pc++
	if p.pc > p.size {
		p.size = p.pc
	}
}

// next returns the next token, skipping comments.
func (p *parser) next() (string, bool) {
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if p.s.TokenText() != "(" {
			return p.s.TokenText(), true
		}
		for tok = p.s.Scan(); tok != scanner.EOF && p.s.TokenText() != ")"; tok = p.s.Scan() {
		}
	}
	return "", false
}

func isLocal(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// local handles references to local labels: n- refers to the closest
// definition of :n before the reference and n+ to the next one after it.
func (p *parser) local(s string, pos scanner.Position) bool {
	if len(s) < 2 {
		return false
	}
	n, dir := s[:len(s)-1], s[len(s)-1]
	if (dir != '+' && dir != '-') || !isLocal(n) {
		return false
	}
	if dir == '+' {
		p.fwd[n] = append(p.fwd[n], labelSite{pos, p.pc})
		p.write(0)
		return true
	}
	addr, ok := p.locals[n]
	if !ok {
		p.error(pos, "undefined local label "+s)
	}
	p.write(vm.Cell(addr))
	return true
}

func (p *parser) useLabel(name string, pos scanner.Position) {
	lbl := p.labels[name]
	if lbl == nil {
		// use current position as valid temp position
		lbl = &label{labelSite{pos, -1}, nil}
		p.labels[name] = lbl
	}
	lbl.uses = append(lbl.uses, labelSite{pos, p.pc})
}

// value parses an integer literal, a char literal, a constant or a label
// reference. It writes the value at the current pc.
func (p *parser) value(s string, pos scanner.Position) {
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		p.write(vm.Cell(n))
		return
	}
	if len(s) > 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, _, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err != nil {
			p.error(pos, err.Error()+": "+s)
		}
		p.write(vm.Cell(r))
		return
	}
	if p.local(s, pos) {
		return
	}
	if c, ok := p.consts[s]; ok {
		p.write(vm.Cell(c.address))
		return
	}
	if s[0] == '-' || s[0] == '+' || unicode.IsDigit(rune(s[0])) {
		p.error(pos, "invalid number "+s)
		p.write(0)
		return
	}
	p.useLabel(s, pos)
	p.write(0)
}

func (p *parser) operand(s string, pos scanner.Position) {
	mode := vm.ModePosition
	switch s[0] {
	case '#':
		mode = vm.ModeImmediate
		s = s[1:]
	case '~':
		mode = vm.ModeRelative
		s = s[1:]
	}
	if s == "" {
		p.error(pos, "missing operand value")
		s = "0"
	}
	p.i[p.ins] += vm.Cell(mode) * modeWeight[p.argN]
	p.value(s, pos)
	p.argN++
	p.nargs--
}

func (p *parser) directive(s string, pos scanner.Position) {
	arg, ok := p.next()
	if !ok {
		p.error(pos, s+": missing argument")
		return
	}
	apos := p.s.Position
	switch s {
	case ".dat":
		p.value(arg, apos)
	case ".org":
		n, err := strconv.ParseInt(arg, 0, 64)
		if err != nil || n < 0 {
			p.error(apos, ".org: invalid address "+arg)
			return
		}
		p.pc = int(n)
	case ".equ":
		if l, ok := p.labels[arg]; ok {
			p.error(apos, ".equ: redefinition of "+arg+", previously defined/used as a label here: "+l.pos.String())
			return
		}
		v, ok := p.next()
		if !ok {
			p.error(apos, ".equ "+arg+": missing value")
			return
		}
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			p.error(p.s.Position, ".equ "+arg+": invalid value "+v)
			return
		}
		p.consts[arg] = labelSite{apos, int(n)}
	default:
		p.error(pos, "unknown directive "+s)
	}
}

func (p *parser) defLabel(n string, pos scanner.Position) {
	if len(n) == 0 {
		p.error(pos, "empty label name")
		return
	}
	if isLocal(n) {
		for _, u := range p.fwd[n] {
			p.i[u.address] = vm.Cell(p.pc)
		}
		delete(p.fwd, n)
		p.locals[n] = p.pc
		return
	}
	if cst, ok := p.consts[n]; ok {
		p.error(pos, "label redefinition: "+n+", previously defined as a constant here: "+cst.pos.String())
		return
	}
	if l, ok := p.labels[n]; ok {
		if l.address != -1 {
			p.error(pos, "label redefinition: "+n+", previous definition here: "+l.pos.String())
			return
		}
		l.address = p.pc
		l.pos = pos
		return
	}
	p.labels[n] = &label{labelSite{pos, p.pc}, nil}
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) ([]vm.Cell, error) {
	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		p.error(pos, msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents
	p.s.Filename = name

	for s, ok := p.next(); ok; s, ok = p.next() {
		pos := p.s.Position
		if p.nargs > 0 {
			if s[0] != ':' && s[0] != '.' {
				p.operand(s, pos)
				continue
			}
			p.error(pos, "missing operand before "+s)
			p.nargs = 0
		}
		switch s[0] {
		case ':':
			p.defLabel(s[1:], pos)
		case '.':
			p.directive(s, pos)
		default:
			op, ok := vm.OpcodeByName(s)
			if !ok {
				p.error(pos, "unknown mnemonic "+s)
				continue
			}
			p.ins = p.pc
			p.write(vm.Cell(op))
			p.argN = 0
			p.nargs = op.Arity()
		}
	}
	if p.nargs > 0 {
		p.error(p.s.Pos(), "missing operand at end of input")
	}

	for n, uses := range p.fwd {
		p.error(uses[0].pos, "undefined local label "+n+"+")
	}

	// write labels
	for n, l := range p.labels {
		if l.address == -1 {
			p.error(l.uses[0].pos, "undefined label "+n)
			continue
		}
		for _, u := range l.uses {
			p.i[u.address] = vm.Cell(l.address)
		}
	}

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.i[:p.size], nil
}
