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
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/internal/ici"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// zstdSuffix is the file name suffix of zstd compressed tapes.
const zstdSuffix = ".zst"

// scanCells is a bufio.SplitFunc returning comma separated fields with
// surrounding white space trimmed.
func scanCells(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, ','); i >= 0 {
		return i + 1, bytes.TrimSpace(data[:i]), nil
	}
	if atEOF && len(data) > 0 {
		return len(data), bytes.TrimSpace(data), nil
	}
	return 0, nil, nil
}

// Parse reads a tape in text format: comma separated decimal integers. White
// space around values, including a trailing new line, is ignored. Empty
// fields are an error unless last.
func Parse(r io.Reader) ([]Cell, error) {
	var t []Cell
	s := bufio.NewScanner(r)
	s.Split(scanCells)
	s.Buffer(make([]byte, 4096), 1<<20)
	empty := false
	for s.Scan() {
		if empty {
			return nil, errors.Errorf("cell %d: empty value", len(t))
		}
		tok := s.Text()
		if tok == "" {
			// a trailing new line after the last comma
			empty = true
			continue
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %d", len(t))
		}
		t = append(t, Cell(n))
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	return t, nil
}

// Load loads a tape from file fileName. Files with a ".zst" extension are
// decompressed on the fly.
func Load(fileName string) ([]Cell, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(fileName, zstdSuffix) {
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "Load")
		}
		defer d.Close()
		r = d
	}
	t, err := Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Load %s", fileName)
	}
	return t, nil
}

// Save saves a tape to file fileName in text format. Files with a ".zst"
// extension are compressed.
func Save(fileName string, tape []Cell) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close failed")
		}
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(fileName, zstdSuffix) {
		if enc, err = zstd.NewWriter(f); err != nil {
			return errors.Wrap(err, "zstd init failed")
		}
		defer func() {
			// only set on error paths
			if enc != nil {
				enc.Close()
			}
		}()
		w = enc
	}
	bw := bufio.NewWriter(w)
	ew := ici.NewErrWriter(bw)
	writeTape(ew, tape)
	if ew.Err != nil {
		return ew.Err
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrap(err, "write failed")
	}
	if enc != nil {
		if err = enc.Close(); err != nil {
			return errors.Wrap(err, "zstd close failed")
		}
		enc = nil
	}
	return nil
}
