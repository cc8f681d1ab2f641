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

// Package circuit wires Intcode VM instances into pipelines and feedback rings.
//
// Instances in a circuit communicate through vm.Port message channels and run
// concurrently, each in its own goroutine. A pipeline connects the output of
// each instance to the input of the next one. A ring additionally connects the
// output of the last instance back to the input of the first, through a port
// owned by the ring driver.
//
// Phase values, the per-instance control values of a circuit, are queued on
// each instance before it starts. The first instance then receives the seed
// value.
package circuit

import (
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

type options struct {
	portSize int
	vmOpts   []vm.Option
}

// Option configures circuits.
type Option func(*options) error

// PortSize sets the number of slots of the ports connecting instances. The
// default is vm.DefaultPortSize.
func PortSize(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.Errorf("invalid port size %d", n)
		}
		o.portSize = n
		return nil
	}
}

// WithVMOptions adds options passed to every instance of a circuit.
func WithVMOptions(opts ...vm.Option) Option {
	return func(o *options) error {
		o.vmOpts = append(o.vmOpts, opts...)
		return nil
	}
}

func newOptions(opts []Option) (*options, error) {
	o := new(options)
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newNodes creates n cooperative instances connected in sequence: the output
// port of node k is the input port of node k+1. The input port of the first
// node is returned in ports[0] and ports[n] is a new port for the output of the
// last node.
func newNodes(tape []vm.Cell, n int, o *options) (nodes []*vm.Instance, ports []*vm.Port, err error) {
	if n < 1 {
		return nil, nil, errors.Errorf("invalid number of nodes %d", n)
	}
	nodes = make([]*vm.Instance, n)
	ports = make([]*vm.Port, n+1)
	for k := range nodes {
		ports[k] = vm.NewPort(o.portSize)
		nodes[k], err = vm.New(tape, append([]vm.Option{vm.InputPort(ports[k])}, o.vmOpts...)...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "node %d", k)
		}
	}
	ports[n] = vm.NewPort(o.portSize)
	return nodes, ports, nil
}

// Chain runs one standalone instance of the given tape per phase value, one
// after the other. Each instance receives its phase value then the signal
// value, and its last output becomes the signal of the next one. The first
// signal is seed. Chain returns the last output of the last instance.
//
// Only WithVMOptions is relevant to Chain.
func Chain(tape []vm.Cell, phases []vm.Cell, seed vm.Cell, opts ...Option) (vm.Cell, error) {
	o, err := newOptions(opts)
	if err != nil {
		return 0, err
	}
	signal := seed
	for k, phase := range phases {
		i, err := vm.New(tape, o.vmOpts...)
		if err != nil {
			return 0, errors.Wrapf(err, "stage %d", k)
		}
		if err = i.Run(phase, signal); err != nil {
			return 0, errors.Wrapf(err, "stage %d", k)
		}
		v, ok := i.LastOutput()
		if !ok {
			return 0, errors.Errorf("stage %d: no output", k)
		}
		signal = v
	}
	return signal, nil
}
