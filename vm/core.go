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

import "github.com/pkg/errors"

// fault is raised by operand helpers and recovered by Step.
type fault struct {
	error
}

func (i *Instance) operand(ins Instruction, ip Cell, n int) Operand {
	return Operand{Mode: ins.Modes[n], Raw: i.Mem.Read(ip + 1 + Cell(n))}
}

func (i *Instance) load(ins Instruction, ip Cell, n int) Cell {
	v, err := i.operand(ins, ip, n).Value(i.Mem, i.RB)
	if err != nil {
		panic(fault{err})
	}
	return v
}

func (i *Instance) addr(ins Instruction, ip Cell, n int) Cell {
	a, err := i.operand(ins, ip, n).Addr(i.RB)
	if err != nil {
		panic(fault{err})
	}
	return a
}

// Step executes a single instruction and returns the resulting state.
//
// AwaitingInput is returned when an input instruction finds no queued input
// value. The PC is left on that instruction so that the next call to Step
// retries it; use Feed to queue a value first. OutputReady is returned right
// after an output instruction; the value is available from LastOutput.
// Calling Step on a halted instance is a no-op that returns Halted.
//
// If an error occurs, the PC will point to the instruction that triggered the
// error. All operands are resolved before the PC moves, so faults never leave
// an instruction half executed.
func (i *Instance) Step() (st State, err error) {
	if i.state == Halted {
		return Halted, nil
	}
	defer func() {
		if e := recover(); e != nil {
			f, ok := e.(fault)
			if !ok {
				panic(e)
			}
			st, err = i.state, errors.Wrapf(f.error, "@pc=%d", i.PC)
		}
	}()

	ip := i.PC
	ins, err := Decode(i.Mem.Read(ip))
	if err != nil {
		return i.state, errors.Wrapf(err, "@pc=%d", ip)
	}
	switch ins.Op {
	case OpAdd, OpMul, OpLessThan, OpEquals:
		a, b, dst := i.load(ins, ip, 0), i.load(ins, ip, 1), i.addr(ins, ip, 2)
		var v Cell
		switch ins.Op {
		case OpAdd:
			v = a + b
		case OpMul:
			v = a * b
		case OpLessThan:
			if a < b {
				v = 1
			}
		case OpEquals:
			if a == b {
				v = 1
			}
		}
		i.PC = ip + 4
		i.Mem.Write(dst, v)
	case OpIn:
		dst := i.addr(ins, ip, 0)
		if len(i.pending) == 0 {
			i.state = AwaitingInput
			return i.state, nil
		}
		v := i.pending[0]
		i.pending = i.pending[1:]
		i.PC = ip + 2
		i.Mem.Write(dst, v)
	case OpOut:
		v := i.load(ins, ip, 0)
		i.PC = ip + 2
		i.outputs = append(i.outputs, v)
		i.insCount++
		i.state = OutputReady
		return i.state, nil
	case OpJumpIfTrue, OpJumpIfFalse:
		cond, target := i.load(ins, ip, 0), i.load(ins, ip, 1)
		if (cond != 0) == (ins.Op == OpJumpIfTrue) {
			if target < 0 {
				panic(fault{errors.Wrapf(ErrInvalidAddress, "jump to %d", target)})
			}
			i.PC = target
		} else {
			i.PC = ip + 3
		}
	case OpAdjustRelativeBase:
		v := i.load(ins, ip, 0)
		i.PC = ip + 2
		i.RB += v
	case OpHalt:
		// the PC stays on the halt instruction
		i.insCount++
		i.state = Halted
		return i.state, nil
	}
	i.insCount++
	i.state = Running
	return i.state, nil
}
