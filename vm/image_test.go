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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	data := []struct {
		in   string
		want []vm.Cell
	}{
		{"1,0,0,0,99\n", C{1, 0, 0, 0, 99}},
		{" 1 ,\n -2 \n", C{1, -2}},
		{"104,1125899906842624,99", C{104, 1125899906842624, 99}},
		{"", nil},
		{"1,2,\n", C{1, 2}},
	}
	for _, d := range data {
		got, err := vm.Parse(strings.NewReader(d.in))
		if err != nil {
			t.Errorf("Parse(%q): %v", d.in, err)
			continue
		}
		if diff := cmp.Diff(d.want, got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", d.in, diff)
		}
	}
	for _, d := range []struct{ in, err string }{
		{"1,2,x3\n", "cell 2: "},
		{"1,,0,0,99", "cell 1: empty value"},
		{",1", "cell 0: empty value"},
	} {
		_, err := vm.Parse(strings.NewReader(d.in))
		if err == nil || !strings.HasPrefix(err.Error(), d.err) {
			t.Errorf("Parse(%q): bad error %v", d.in, err)
		}
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	tape := C{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	for _, name := range []string{"tape.txt", "tape.txt.zst"} {
		fn := filepath.Join(dir, name)
		if err := vm.Save(fn, tape); err != nil {
			t.Fatal(err)
		}
		got, err := vm.Load(fn)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]vm.Cell(tape), got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", name, diff)
		}
	}
	b, err := os.ReadFile(filepath.Join(dir, "tape.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if s := string(b); s != "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99\n" {
		t.Errorf("bad file contents %q", s)
	}
	if _, err = vm.Load(filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error")
	}
	if err = vm.Save(filepath.Join(dir, "nope", "tape.txt"), tape); err == nil {
		t.Error("expected error")
	}
}

func TestSave_writeError(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	dir := t.TempDir()
	tape := make([]vm.Cell, 1<<18)
	for n := range tape {
		tape[n] = vm.Cell(n)
	}
	for _, name := range []string{"full.txt", "full.txt.zst"} {
		fn := filepath.Join(dir, name)
		if err := os.Symlink("/dev/full", fn); err != nil {
			t.Fatal(err)
		}
		if err := vm.Save(fn, tape); err == nil {
			t.Errorf("%s: expected error", name)
		}
		if _, err := os.Lstat(fn); !os.IsNotExist(err) {
			t.Errorf("%s: not removed after failed save", name)
		}
	}
}

func TestDump(t *testing.T) {
	i := setup(C{1, 0, 0, 0, 99}, 0)
	if err := i.Run(); err != nil {
		t.Fatal(err)
	}
	i.Mem.Write(7, 3)
	var b bytes.Buffer
	if err := i.Dump(&b); err != nil {
		t.Fatal(err)
	}
	if s := b.String(); s != "2,0,0,0,99,0,0,3\n" {
		t.Errorf("bad dump %q", s)
	}
}

func TestDump_sparse(t *testing.T) {
	// writes 1 at address 2^40
	i := setup(C{109, 1 << 40, 21101, 1, 0, 0, 99}, 0)
	if err := i.Run(); err != nil {
		t.Fatal(err)
	}
	if v := i.Mem.Read(1 << 40); v != 1 {
		t.Fatalf("got %d at 2^40, expected 1", v)
	}
	var b bytes.Buffer
	if err := i.Dump(&b); errors.Cause(err) != vm.ErrTapeTooLarge {
		t.Errorf("unexpected error %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("partial dump %q", b.String())
	}
}
