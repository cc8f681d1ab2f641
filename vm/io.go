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
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// CellReader is the interface that wraps the ReadCell method.
//
// ReadCell returns the next input value. It may block. Implementations must
// return an error whose cause is ErrInputExhausted once no more values can be
// produced.
type CellReader interface {
	ReadCell() (Cell, error)
}

// CellWriter is the interface that wraps the WriteCell method.
type CellWriter interface {
	WriteCell(v Cell) error
}

type values []Cell

func (v *values) ReadCell() (Cell, error) {
	if len(*v) == 0 {
		return 0, errors.WithStack(ErrInputExhausted)
	}
	c := (*v)[0]
	*v = (*v)[1:]
	return c, nil
}

// Values returns a CellReader that returns the given values in order.
func Values(v ...Cell) CellReader {
	vv := values(append([]Cell(nil), v...))
	return &vv
}

type readerInput struct {
	r      *bufio.Reader
	prompt io.Writer
}

func (in *readerInput) ReadCell() (Cell, error) {
	for {
		if in.prompt != nil {
			io.WriteString(in.prompt, "? ")
		}
		line, err := in.r.ReadString('\n')
		s := strings.TrimSpace(line)
		if s == "" {
			if err == io.EOF {
				return 0, errors.Wrap(ErrInputExhausted, "EOF")
			}
			if err != nil {
				return 0, errors.Wrap(err, "read failed")
			}
			continue
		}
		n, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			return 0, errors.Wrapf(perr, "bad input value %q", s)
		}
		return Cell(n), nil
	}
}

// NewReaderInput returns a CellReader that reads one decimal value per line
// from r. Blank lines are skipped. If prompt is not nil, a prompt is written to
// it before each read.
func NewReaderInput(r io.Reader, prompt io.Writer) CellReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &readerInput{br, prompt}
}

type writerOutput struct {
	w io.Writer
	b []byte
}

func (o *writerOutput) WriteCell(v Cell) error {
	o.b = strconv.AppendInt(o.b[:0], int64(v), 10)
	o.b = append(o.b, '\n')
	_, err := o.w.Write(o.b)
	return errors.Wrap(err, "write failed")
}

// NewWriterOutput returns a CellWriter that writes values to w in decimal, one
// per line.
func NewWriterOutput(w io.Writer) CellWriter {
	return &writerOutput{w: w}
}

type flusher interface {
	Flush() error
}

type runeWriter interface {
	WriteRune(r rune) (size int, err error)
}

type runeWriterWrapper struct {
	io.Writer
}

func (w *runeWriterWrapper) WriteRune(r rune) (size int, err error) {
	b := [utf8.UTFMax]byte{}
	l := utf8.EncodeRune(b[:], r)
	return w.Writer.Write(b[0:l])
}

// newRuneWriter returns either w if it implements runeWriter or wraps it up
// into a runeWriterWrapper
func newRuneWriter(w io.Writer) runeWriter {
	switch ww := w.(type) {
	case runeWriter:
		return ww
	default:
		return &runeWriterWrapper{w}
	}
}

// runeReaderWrapper wraps a basic reader into a io.RuneReader
type runeReaderWrapper struct {
	io.Reader
}

func (r *runeReaderWrapper) ReadRune() (ret rune, size int, err error) {
	var (
		b = [utf8.UTFMax]byte{}
		i = 0
	)
	for i < utf8.UTFMax && err == nil && !utf8.FullRune(b[:i]) {
		var n int
		n, err = r.Reader.Read(b[i : i+1])
		i += n
	}
	if i == 0 {
		return 0, 0, err
	}
	ret, size = rune(b[0]), 1
	if ret >= utf8.RuneSelf {
		ret, size = utf8.DecodeRune(b[:i])
	}
	return ret, size, err
}

func newRuneReader(r io.Reader) io.RuneReader {
	switch rr := r.(type) {
	case io.RuneReader:
		return rr
	default:
		return &runeReaderWrapper{r}
	}
}

type asciiInput struct {
	r io.RuneReader
}

func (in *asciiInput) ReadCell() (Cell, error) {
	r, size, err := in.r.ReadRune()
	if size > 0 {
		// raw terminals send CR for the Enter key
		if r == '\r' {
			r = '\n'
		}
		return Cell(r), nil
	}
	if err == io.EOF || err == nil {
		return 0, errors.Wrap(ErrInputExhausted, "EOF")
	}
	return 0, errors.Wrap(err, "read failed")
}

// NewASCIIInput returns a CellReader that returns the code point of each rune
// read from r. Carriage returns are translated to line feeds.
func NewASCIIInput(r io.Reader) CellReader {
	return &asciiInput{newRuneReader(r)}
}

type asciiOutput struct {
	w  io.Writer
	rw runeWriter
}

func (o *asciiOutput) WriteCell(v Cell) error {
	var err error
	if v >= 0 && v < utf8.RuneSelf {
		_, err = o.rw.WriteRune(rune(v))
	} else {
		_, err = io.WriteString(o.w, strconv.FormatInt(int64(v), 10)+"\n")
	}
	if err != nil {
		return errors.Wrap(err, "write failed")
	}
	if v == '\n' {
		if f, ok := o.w.(flusher); ok {
			return f.Flush()
		}
	}
	return nil
}

// NewASCIIOutput returns a CellWriter that writes values in the ASCII range as
// characters and any other value in decimal on its own line. If w has a Flush
// method, it is called after each line feed.
func NewASCIIOutput(w io.Writer) CellWriter {
	return &asciiOutput{w, newRuneWriter(w)}
}
