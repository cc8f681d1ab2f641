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
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/circuit"
	"github.com/db47h/intcode/vm"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

type cellList []vm.Cell

func (l *cellList) String() string {
	s := make([]string, len(*l))
	for k, v := range *l {
		s[k] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(s, ",")
}

func (l *cellList) Set(s string) error {
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return err
		}
		*l = append(*l, vm.Cell(n))
	}
	return nil
}

func (l *cellList) Get() interface{} { return *l }

type patch struct {
	addr, value vm.Cell
}

type patchList []patch

func (l *patchList) String() string { return "" }

func (l *patchList) Set(s string) error {
	a, v, ok := strings.Cut(s, "=")
	if !ok {
		return errors.Errorf("expected addr=value, got %q", s)
	}
	addr, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	if err != nil {
		return err
	}
	if addr < 0 {
		return errors.Errorf("negative address %d", addr)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return err
	}
	*l = append(*l, patch{vm.Cell(addr), vm.Cell(n)})
	return nil
}

func (l *patchList) Get() interface{} { return *l }

// option returns a vm.Option that writes the patches to the memory of an
// Instance. Memory is sparse, so far addresses cost a single cell.
func (l patchList) option() vm.Option {
	return func(i *vm.Instance) error {
		for _, p := range l {
			i.Mem.Write(p.addr, p.value)
		}
		return nil
	}
}

var (
	input       cellList
	patches     patchList
	interactive bool
	asciiIO     bool
	noRawIO     bool
	debug       bool
	disasm      bool
	digest      bool
	trace       bool
	dumpFile    string
	circuitFile string
)

func atExit(i *vm.Instance, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	if i != nil {
		fmt.Fprintf(os.Stderr, "PC: %v (%v), RB: %v, state: %v, instructions: %d\n",
			i.PC, i.Mem.Read(i.PC), i.RB, i.State(), i.InstructionCount())
	}
	os.Exit(1)
}

// disassemble writes a disassembly of the patched tape to w.
func disassemble(w io.Writer, tape []vm.Cell) error {
	i, err := vm.New(tape, patches.option())
	if err != nil {
		return err
	}
	t, err := i.Mem.Tape(len(tape))
	if err != nil {
		return err
	}
	return asm.DisassembleAll(t, 0, w)
}

func runCircuit(w io.Writer, opts []vm.Option) error {
	cfg, err := circuit.LoadConfig(circuitFile)
	if err != nil {
		return err
	}
	fileName := cfg.Tape
	if flag.NArg() > 0 {
		fileName = flag.Arg(0)
	}
	if fileName == "" {
		return errors.New("no tape file")
	}
	tape, err := vm.Load(fileName)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	v, err := cfg.Run(ctx, tape, circuit.WithVMOptions(opts...))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, v)
	return err
}

func main() {
	// check exit condition
	var err error
	var i *vm.Instance

	stdout := bufio.NewWriter(os.Stdout)

	// flush output, catch and log errors
	defer func() {
		stdout.Flush()
		atExit(i, err)
	}()

	flag.Var(&input, "in", "comma separated input `values` (can be specified multiple times)")
	flag.Var(&patches, "set", "set memory cell before running, as `addr=value` (can be specified multiple times)")
	flag.BoolVar(&interactive, "interactive", false, "read input values from stdin once -in values are exhausted")
	flag.BoolVar(&asciiIO, "ascii", false, "ASCII console: input and output are characters")
	flag.BoolVar(&noRawIO, "noraw", false, "disable raw terminal IO in ASCII mode")
	flag.StringVar(&circuitFile, "circuit", "", "run the circuit described in YAML file `filename`")
	flag.BoolVar(&disasm, "disasm", false, "disassemble the tape and exit")
	flag.StringVar(&dumpFile, "dump", "", "save memory to `filename` upon exit")
	flag.BoolVar(&digest, "digest", false, "print a digest of memory upon exit")
	flag.BoolVar(&trace, "trace", false, "log outputs and halts to stderr")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")

	flag.Parse()

	opts := []vm.Option{patches.option()}
	if trace {
		opts = append(opts, vm.Logger(log.New(os.Stderr, "intcode: ", log.Lmicroseconds)))
	}

	if circuitFile != "" {
		err = runCircuit(stdout, opts)
		return
	}

	if flag.NArg() != 1 {
		err = errors.Errorf("usage: %s [flags] tapefile", os.Args[0])
		return
	}
	tape, err := vm.Load(flag.Arg(0))
	if err != nil {
		return
	}

	if disasm {
		err = disassemble(stdout, tape)
		return
	}

	if asciiIO {
		var in io.Reader = bufio.NewReader(os.Stdin)
		if !noRawIO {
			// try to switch the terminal to raw mode.
			if tearDown, rerr := setRawIO(); rerr == nil {
				defer tearDown()
				in = &rawReader{os.Stdin, stdout}
			}
		}
		opts = append(opts, vm.Input(vm.NewASCIIInput(in)), vm.Output(vm.NewASCIIOutput(stdout)))
	} else {
		if interactive {
			opts = append(opts, vm.Input(vm.NewReaderInput(os.Stdin, promptWriter{stdout})))
		}
		opts = append(opts, vm.Output(vm.NewWriterOutput(stdout)))
	}

	i, err = vm.New(tape, opts...)
	if err != nil {
		return
	}
	err = i.Run(input...)
	if asciiIO && errors.Cause(err) == vm.ErrInputExhausted {
		// end of input on the console
		err = nil
	}
	if err != nil {
		return
	}

	if dumpFile != "" {
		var t []vm.Cell
		if t, err = i.Mem.Tape(0); err != nil {
			return
		}
		if err = vm.Save(dumpFile, t); err != nil {
			return
		}
	}
	if digest {
		d := i.Mem.Digest()
		fmt.Fprintf(os.Stderr, "digest: %s\n", base58.Encode(d[:]))
	}
}
