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
	"io"
	"log"
	"strconv"

	"github.com/db47h/intcode/internal/ici"
	"github.com/pkg/errors"
)

// Cell is the raw type stored in a memory location. It is also used for
// addresses.
type Cell int64

// Faults reported by Step and the Run functions. They are never returned as
// is, use errors.Cause to test for them.
var (
	ErrInvalidOpcode      = errors.New("invalid opcode")
	ErrInvalidWriteTarget = errors.New("immediate operand used as write target")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInputExhausted     = errors.New("input exhausted")
)

// State is the execution state of an Instance.
type State int

// Instance states. AwaitingInput and OutputReady are suspension points: the
// instance can resume with another call to Step.
const (
	Running State = iota
	AwaitingInput
	OutputReady
	Halted
)

var stateNames = [...]string{"running", "awaiting input", "output ready", "halted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// Instance represents an Intcode VM instance.
type Instance struct {
	PC       Cell   // Program Counter
	RB       Cell   // Relative base
	Mem      Memory // Memory
	state    State
	pending  []Cell
	outputs  []Cell
	insCount int64
	input    CellReader
	output   CellWriter
	port     *Port
	reqInput bool
	log      *log.Logger
}

// Option interface
type Option func(*Instance) error

// Input configures the CellReader used by Run once the values passed to Feed
// or Run are exhausted.
func Input(in CellReader) Option {
	return func(i *Instance) error { i.input = in; return nil }
}

// Output configures the CellWriter that Run forwards output values to.
func Output(out CellWriter) Option {
	return func(i *Instance) error { i.output = out; return nil }
}

// Logger sets a logger used to report output values, suspensions and halts.
func Logger(l *log.Logger) Option {
	return func(i *Instance) error { i.log = l; return nil }
}

// RequestInput enables or disables sending a MsgInputRequest on the output
// port before blocking on input in RunCooperative. Drivers that compute input
// values from previous outputs need it to know when to send.
func RequestInput(enable bool) Option {
	return func(i *Instance) error { i.reqInput = enable; return nil }
}

// InputPort sets the Port RunCooperative receives input values from.
func InputPort(p *Port) Option {
	return func(i *Instance) error {
		if p == nil {
			return errors.New("nil input port")
		}
		i.port = p
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode VM instance.
//
// The tape is copied into the instance memory; the slice itself is never
// modified. Execution starts at address 0 with a relative base of 0.
//
// Options will be set by calling SetOptions.
func New(tape []Cell, opts ...Option) (*Instance, error) {
	i := &Instance{
		Mem: NewMemory(tape),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// NewCooperative creates a new instance wired for channel based I/O and
// returns it along with the sending half of its input port. The port has
// DefaultPortSize slots.
func NewCooperative(tape []Cell, opts ...Option) (*Instance, *Port, error) {
	p := NewPort(DefaultPortSize)
	i, err := New(tape, append([]Option{InputPort(p)}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return i, p, nil
}

// State returns the current execution state.
func (i *Instance) State() State {
	return i.state
}

// Feed queues values for subsequent input instructions.
func (i *Instance) Feed(v ...Cell) {
	i.pending = append(i.pending, v...)
}

// Outputs returns the values written by output instructions so far, in order.
// The returned slice must not be modified.
func (i *Instance) Outputs() []Cell {
	return i.outputs
}

// LastOutput returns the last value written by an output instruction.
func (i *Instance) LastOutput() (Cell, bool) {
	if len(i.outputs) == 0 {
		return 0, false
	}
	return i.outputs[len(i.outputs)-1], true
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

func (i *Instance) logf(format string, args ...interface{}) {
	if i.log != nil {
		i.log.Printf(format, args...)
	}
}

// Dump writes the memory contents to w in tape format, i.e. comma separated
// decimal values. Memories spanning more than MaxTapeSize cells are not
// dumped and ErrTapeTooLarge is returned.
func (i *Instance) Dump(w io.Writer) error {
	t, err := i.Mem.Tape(0)
	if err != nil {
		return errors.Wrap(err, "Dump")
	}
	ew := ici.NewErrWriter(w)
	writeTape(ew, t)
	return ew.Err
}

func writeTape(w io.Writer, t []Cell) {
	b := make([]byte, 0, 24)
	for n, v := range t {
		b = b[:0]
		if n > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
		w.Write(b)
	}
	w.Write([]byte{'\n'})
}
