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

package circuit

import (
	"context"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Pipeline is a sequence of instances where the output of each one is the
// input of the next. The input of the first instance and the output of the
// last one are exposed to the driver.
type Pipeline struct {
	stages []*vm.Instance
	ports  []*vm.Port
	g      *errgroup.Group
}

// NewPipeline creates a pipeline of n instances of the given tape.
func NewPipeline(tape []vm.Cell, n int, opts ...Option) (*Pipeline, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	stages, ports, err := newNodes(tape, n, o)
	if err != nil {
		return nil, err
	}
	return &Pipeline{stages: stages, ports: ports}, nil
}

// Stages returns the pipeline instances. Values queued with Feed before Start
// are consumed before any value received from their input port.
func (p *Pipeline) Stages() []*vm.Instance {
	return p.stages
}

// Input returns the input port of the first stage. The driver is its only
// sender and should Close it once done sending.
func (p *Pipeline) Input() *vm.Port {
	return p.ports[0]
}

// Output returns the output port of the last stage. It gets closed once the
// last stage stops. The driver must keep receiving from it until then.
func (p *Pipeline) Output() *vm.Port {
	return p.ports[len(p.ports)-1]
}

// Start starts all stages. Cancelling ctx or a fault in any stage stops all of
// them.
func (p *Pipeline) Start(ctx context.Context) {
	var gctx context.Context
	p.g, gctx = errgroup.WithContext(ctx)
	for k, s := range p.stages {
		p.g.Go(func() error {
			return errors.Wrapf(s.RunCooperative(gctx, p.ports[k+1]), "stage %d", k)
		})
	}
}

// Wait waits for all stages to stop and returns the first error that occurred.
func (p *Pipeline) Wait() error {
	if p.g == nil {
		return errors.New("pipeline not started")
	}
	return p.g.Wait()
}

// RunPipeline runs a pipeline of len(phases) instances of the given tape. Each
// instance receives its phase value, then the first one receives seed. It
// returns the last value output by the last instance. The result is the same
// as Chain's.
func RunPipeline(ctx context.Context, tape []vm.Cell, phases []vm.Cell, seed vm.Cell, opts ...Option) (vm.Cell, error) {
	p, err := NewPipeline(tape, len(phases), opts...)
	if err != nil {
		return 0, err
	}
	for k, s := range p.Stages() {
		s.Feed(phases[k])
	}
	p.Start(ctx)

	err = p.Input().Send(ctx, vm.ValueMsg(seed))
	p.Input().Close()
	if err != nil && err != vm.ErrDisconnected {
		p.Output().Drop()
		p.Wait()
		return 0, errors.Wrap(err, "seed")
	}

	var (
		last vm.Cell
		ok   bool
	)
	out := p.Output()
	for {
		m, err := out.Recv(ctx)
		if err != nil {
			out.Drop()
			p.Wait()
			return 0, err
		}
		if m.Kind == vm.MsgClosed {
			break
		}
		if m.Kind == vm.MsgValue {
			last, ok = m.Value, true
		}
	}
	if err = p.Wait(); err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New("pipeline: no output")
	}
	return last, nil
}
