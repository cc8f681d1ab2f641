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

// Package ascii provides utility functions for Intcode programs that
// communicate with their environment using ASCII character codes.
package ascii

import (
	"strings"
	"unicode/utf8"

	"github.com/db47h/intcode/vm"
)

// Encode returns the character codes of s, one cell per rune.
func Encode(s string) []vm.Cell {
	c := make([]vm.Cell, 0, len(s))
	for _, r := range s {
		c = append(c, vm.Cell(r))
	}
	return c
}

// EncodeLines encodes the given lines, each terminated by a line feed.
func EncodeLines(lines ...string) []vm.Cell {
	var c []vm.Cell
	for _, l := range lines {
		c = append(c, Encode(l)...)
		c = append(c, '\n')
	}
	return c
}

// Decode splits out into the leading run of ASCII character codes and the
// remaining values. Programs commonly print some text followed by a single
// large value that is the actual result.
//
// rest is nil if all values are in the ASCII range.
func Decode(out []vm.Cell) (text string, rest []vm.Cell) {
	var b strings.Builder
	n := 0
	for ; n < len(out); n++ {
		if out[n] < 0 || out[n] >= utf8.RuneSelf {
			break
		}
		b.WriteByte(byte(out[n]))
	}
	if n < len(out) {
		rest = out[n:]
	}
	return b.String(), rest
}
