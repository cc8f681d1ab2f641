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

package main

import (
	"bufio"
	"io"
	"os"
)

// promptWriter flushes pending output before writing an input prompt to
// stderr.
type promptWriter struct {
	out *bufio.Writer
}

func (w promptWriter) Write(p []byte) (int, error) {
	if err := w.out.Flush(); err != nil {
		return 0, err
	}
	return os.Stderr.Write(p)
}

// rawReader reads from a terminal in raw mode. Since the terminal does not echo
// input anymore, bytes read are echoed to out. CTRL-D ends input.
type rawReader struct {
	r   io.Reader
	out *bufio.Writer
}

func (r *rawReader) Read(p []byte) (int, error) {
	r.out.Flush()
	n, err := r.r.Read(p)
	for k := 0; k < n; k++ {
		switch p[k] {
		case 4:
			r.out.Flush()
			return k, io.EOF
		case '\r':
			r.out.WriteByte('\n')
		default:
			r.out.WriteByte(p[k])
		}
	}
	r.out.Flush()
	return n, err
}
