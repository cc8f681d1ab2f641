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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Circuit kinds.
const (
	KindPipeline = "pipeline"
	KindRing     = "ring"
)

// Config describes a circuit. It is usually loaded from a YAML file:
//
//	kind: ring
//	phases: [9, 8, 7, 6, 5]
//	seed: 0
//	port_size: 8
//	tape: amplifier.txt
type Config struct {
	Kind     string    `yaml:"kind"`
	Phases   []vm.Cell `yaml:"phases"`
	Seed     vm.Cell   `yaml:"seed"`
	PortSize int       `yaml:"port_size,omitempty"`
	Tape     string    `yaml:"tape,omitempty"` // tape file name, relative to the config file
}

// ValidationError lists the problems found in a Config.
type ValidationError []string

func (e ValidationError) Error() string {
	return "invalid circuit config: " + strings.Join(e, "; ")
}

// Validate checks the configuration and returns a ValidationError listing
// all problems found, or nil.
func (c *Config) Validate() error {
	var errs ValidationError
	switch c.Kind {
	case KindPipeline, KindRing:
	case "":
		errs = append(errs, "missing kind")
	default:
		errs = append(errs, "unknown kind "+c.Kind)
	}
	if len(c.Phases) == 0 {
		errs = append(errs, "no phases")
	}
	if c.PortSize < 0 {
		errs = append(errs, "negative port_size")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseConfig reads a YAML circuit configuration from r and validates it.
// Unknown fields are errors.
func ParseConfig(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "parse failed")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfig loads a circuit configuration from file fileName. A relative Tape
// path is resolved against the directory of fileName.
func LoadConfig(fileName string) (*Config, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "LoadConfig")
	}
	defer f.Close()
	c, err := ParseConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "LoadConfig %s", fileName)
	}
	if c.Tape != "" && !filepath.IsAbs(c.Tape) {
		c.Tape = filepath.Join(filepath.Dir(fileName), c.Tape)
	}
	return c, nil
}

// Run runs the circuit described by c and returns its result. If tape is nil,
// the tape is loaded from c.Tape.
func (c *Config) Run(ctx context.Context, tape []vm.Cell, opts ...Option) (vm.Cell, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if tape == nil {
		if c.Tape == "" {
			return 0, errors.New("no tape")
		}
		var err error
		if tape, err = vm.Load(c.Tape); err != nil {
			return 0, err
		}
	}
	if c.PortSize > 0 {
		opts = append(opts, PortSize(c.PortSize))
	}
	if c.Kind == KindRing {
		return RunRing(ctx, tape, c.Phases, c.Seed, opts...)
	}
	return RunPipeline(ctx, tape, c.Phases, c.Seed, opts...)
}
