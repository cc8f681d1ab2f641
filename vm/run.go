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
	"context"

	"github.com/pkg/errors"
)

// Run starts execution of the VM and returns once the program halts.
//
// Input instructions consume the given input values first, then any values
// queued with Feed, then values read from the CellReader configured with the
// Input option. If there is no such reader, running out of input values is a
// fault whose cause is ErrInputExhausted. Output values are appended to
// Outputs and written to the CellWriter configured with the Output option, if
// any.
//
// If an error occurs, the PC will point to the instruction that triggered the
// error. Calling Run on a halted instance returns nil immediately.
func (i *Instance) Run(input ...Cell) error {
	i.Feed(input...)
	for {
		st, err := i.Step()
		if err != nil {
			return err
		}
		switch st {
		case Halted:
			i.logf("halted @pc=%d after %d instructions", i.PC, i.insCount)
			return nil
		case AwaitingInput:
			if i.input == nil {
				return errors.Wrapf(ErrInputExhausted, "@pc=%d", i.PC)
			}
			v, err := i.input.ReadCell()
			if err != nil {
				return errors.Wrapf(err, "input @pc=%d", i.PC)
			}
			i.Feed(v)
		case OutputReady:
			v := i.outputs[len(i.outputs)-1]
			i.logf("out %d", v)
			if i.output != nil {
				if err = i.output.WriteCell(v); err != nil {
					return errors.Wrapf(err, "output @pc=%d", i.PC)
				}
			}
		}
	}
}

// RunCooperative runs the VM connected to message ports: input values are
// received from the instance input port (see NewCooperative and InputPort) and
// output values are sent to out. It returns once the program halts.
//
// The only points where RunCooperative blocks are input instructions with no
// queued value and sends to a full output port. Values queued with Feed are
// consumed before receiving from the input port.
//
// Port disconnection is not an error: if the receiver of out drops it,
// RunCooperative stops forwarding output values (they are still appended to
// Outputs) and keeps running. If the input port gets closed while waiting for
// input, RunCooperative returns nil and the instance stays in the
// AwaitingInput state.
//
// Upon return, the input port is dropped and out is closed. out may be nil.
func (i *Instance) RunCooperative(ctx context.Context, out *Port) error {
	if i.port == nil {
		return errors.New("RunCooperative: no input port")
	}
	defer func() {
		i.port.Drop()
		if out != nil {
			out.Close()
		}
	}()
	forward := out != nil
	send := func(m Msg) error {
		err := out.Send(ctx, m)
		if err == ErrDisconnected {
			i.logf("output disconnected @pc=%d", i.PC)
			forward = false
			return nil
		}
		return err
	}
	for {
		st, err := i.Step()
		if err != nil {
			return err
		}
		switch st {
		case Halted:
			i.logf("halted @pc=%d after %d instructions", i.PC, i.insCount)
			return nil
		case AwaitingInput:
			if i.reqInput && forward {
				if err = send(Msg{Kind: MsgInputRequest}); err != nil {
					return errors.Wrapf(err, "input request @pc=%d", i.PC)
				}
			}
			m, err := i.port.Recv(ctx)
			if err != nil {
				return errors.Wrapf(err, "input @pc=%d", i.PC)
			}
			switch m.Kind {
			case MsgValue:
				i.Feed(m.Value)
			case MsgClosed:
				i.logf("input closed @pc=%d", i.PC)
				return nil
			}
		case OutputReady:
			v := i.outputs[len(i.outputs)-1]
			i.logf("out %d", v)
			if forward {
				if err = send(ValueMsg(v)); err != nil {
					return errors.Wrapf(err, "output @pc=%d", i.PC)
				}
			}
		}
	}
}
