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

// Ring is a feedback loop of instances: the output of node k feeds the input
// of node k+1 and the output of the last node is forwarded by the ring driver
// to the first one. The driver records the last value it forwarded, which is
// the result of the ring.
type Ring struct {
	nodes  []*vm.Instance
	ports  []*vm.Port
	seeded bool
	ran    bool
}

// NewRing creates a ring of n instances of the given tape.
func NewRing(tape []vm.Cell, n int, opts ...Option) (*Ring, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	nodes, ports, err := newNodes(tape, n, o)
	if err != nil {
		return nil, err
	}
	return &Ring{nodes: nodes, ports: ports}, nil
}

// Nodes returns the ring instances.
func (r *Ring) Nodes() []*vm.Instance {
	return r.nodes
}

// Seed queues phases[k] as the first input value of node k, and seed as the
// second input value of the first node. It must be called before Run.
func (r *Ring) Seed(phases []vm.Cell, seed vm.Cell) error {
	if r.ran {
		return errors.New("ring: Seed called after Run")
	}
	if len(phases) != len(r.nodes) {
		return errors.Errorf("ring: got %d phase values for %d nodes", len(phases), len(r.nodes))
	}
	for k, n := range r.nodes {
		n.Feed(phases[k])
	}
	r.nodes[0].Feed(seed)
	r.seeded = true
	return nil
}

// Run starts all nodes and the driver loop, and waits for them to stop. It
// returns the last value output by the last node.
//
// A node sending to a node that already halted is the normal termination path
// of a ring, not an error. A fault in any node or cancelling ctx stops all
// nodes.
func (r *Ring) Run(ctx context.Context) (vm.Cell, error) {
	if r.ran {
		return 0, errors.New("ring: already run")
	}
	if !r.seeded {
		return 0, errors.New("ring: not seeded")
	}
	r.ran = true

	var (
		last vm.Cell
		ok   bool
	)
	g, gctx := errgroup.WithContext(ctx)
	for k, n := range r.nodes {
		g.Go(func() error {
			return errors.Wrapf(n.RunCooperative(gctx, r.ports[k+1]), "node %d", k)
		})
	}
	// driver loop: forward the output of the last node to the first one.
	g.Go(func() error {
		in, out := r.ports[len(r.ports)-1], r.ports[0]
		defer out.Close()
		for {
			m, err := in.Recv(gctx)
			if err != nil {
				in.Drop()
				return errors.Wrap(err, "ring driver")
			}
			switch m.Kind {
			case vm.MsgClosed:
				return nil
			case vm.MsgValue:
				last, ok = m.Value, true
				// ErrDisconnected: the first node halted. Keep draining.
				if err = out.Send(gctx, m); err != nil && err != vm.ErrDisconnected {
					in.Drop()
					return errors.Wrap(err, "ring driver")
				}
			}
		}
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New("ring: no output")
	}
	return last, nil
}

// RunRing runs a ring of len(phases) instances of the given tape, seeded with
// the given phase values and seed value, and returns its result.
func RunRing(ctx context.Context, tape []vm.Cell, phases []vm.Cell, seed vm.Cell, opts ...Option) (vm.Cell, error) {
	r, err := NewRing(tape, len(phases), opts...)
	if err != nil {
		return 0, err
	}
	if err = r.Seed(phases, seed); err != nil {
		return 0, err
	}
	return r.Run(ctx)
}
