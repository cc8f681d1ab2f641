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

package circuit_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/db47h/intcode/circuit"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type C []vm.Cell

var chainTests = []struct {
	tape   C
	phases C
	want   vm.Cell
}{
	{C{3, 15, 3, 16, 1002, 16, 10, 16, 1, 16, 15, 15, 4, 15, 99, 0, 0},
		C{4, 3, 2, 1, 0}, 43210},
	{C{3, 23, 3, 24, 1002, 24, 10, 24, 1002, 23, -1, 23, 101, 5, 23, 23, 1, 24, 23, 23, 4, 23, 99, 0, 0},
		C{0, 1, 2, 3, 4}, 54321},
	{C{3, 31, 3, 32, 1002, 32, 10, 32, 1001, 31, -2, 31, 1007, 31, 0, 33, 1002, 33, 7, 33, 1, 33, 31, 31, 1, 32, 31, 31, 4, 31, 99, 0, 0, 0},
		C{1, 0, 4, 3, 2}, 65210},
}

var ringTests = []struct {
	tape   C
	phases C
	want   vm.Cell
}{
	{C{3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26, 27, 4, 27, 1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5},
		C{9, 8, 7, 6, 5}, 139629729},
	{C{3, 52, 1001, 52, -5, 52, 3, 53, 1, 52, 56, 54, 1007, 54, 5, 55, 1005, 55, 26, 1001, 54, -5, 54, 1105, 1, 12, 1, 53,
		54, 53, 1008, 54, 0, 55, 1001, 55, 1, 55, 2, 53, 55, 53, 4, 53, 1001, 56, -1, 56, 1005, 56, 6, 99, 0, 0, 0, 0, 10},
		C{9, 7, 8, 5, 6}, 18216},
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestChain(t *testing.T) {
	for _, test := range chainTests {
		got, err := circuit.Chain(test.tape, test.phases, 0)
		require.NoError(t, err)
		assert.Equal(t, test.want, got)
	}
}

func TestChain_noOutput(t *testing.T) {
	_, err := circuit.Chain(C{3, 0, 3, 0, 99}, C{1, 2}, 0)
	assert.EqualError(t, err, "stage 0: no output")
}

func TestRunPipeline(t *testing.T) {
	ctx := testContext(t)
	for _, test := range chainTests {
		for _, size := range []int{1, 0} {
			got, err := circuit.RunPipeline(ctx, test.tape, test.phases, 0, circuit.PortSize(size))
			require.NoError(t, err)
			assert.Equal(t, test.want, got)

			// same as Chain
			want, err := circuit.Chain(test.tape, test.phases, 0)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestPipeline_driver(t *testing.T) {
	ctx := testContext(t)
	// each stage adds its phase value to every input value
	tape := C{3, 100, 3, 101, 1, 100, 101, 102, 4, 102, 1105, 1, 2}
	p, err := circuit.NewPipeline(tape, 3)
	require.NoError(t, err)
	require.Len(t, p.Stages(), 3)
	for k, s := range p.Stages() {
		s.Feed(vm.Cell(k + 1))
	}
	p.Start(ctx)

	var got C
	for _, v := range (C{0, 10, 20}) {
		require.NoError(t, p.Input().Send(ctx, vm.ValueMsg(v)))
		m, err := p.Output().Recv(ctx)
		require.NoError(t, err)
		require.Equal(t, vm.MsgValue, m.Kind)
		got = append(got, m.Value)
	}
	p.Input().Close()
	m, err := p.Output().Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, vm.MsgClosed, m.Kind)
	require.NoError(t, p.Wait())
	assert.Equal(t, C{6, 16, 26}, got)
	for _, s := range p.Stages() {
		assert.Equal(t, vm.AwaitingInput, s.State())
	}
}

func TestPipeline_fault(t *testing.T) {
	ctx := testContext(t)
	_, err := circuit.RunPipeline(ctx, C{3, 0, 3, 0, 4, 0, 77}, C{1}, 0)
	require.Error(t, err)
	assert.Equal(t, vm.ErrInvalidOpcode, errors.Cause(err))
	assert.True(t, strings.HasPrefix(err.Error(), "stage 0: "), err.Error())
}

func TestRunRing(t *testing.T) {
	ctx := testContext(t)
	for _, test := range ringTests {
		// the result does not depend on scheduling
		for n := 0; n < 10; n++ {
			got, err := circuit.RunRing(ctx, test.tape, test.phases, 0)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		}
	}
}

func TestRing(t *testing.T) {
	ctx := testContext(t)
	test := ringTests[0]
	r, err := circuit.NewRing(test.tape, len(test.phases), circuit.PortSize(1))
	require.NoError(t, err)

	_, err = r.Run(ctx)
	assert.EqualError(t, err, "ring: not seeded")
	assert.Error(t, r.Seed(C{1, 2}, 0))

	require.NoError(t, r.Seed(test.phases, 0))
	got, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, test.want, got)
	for _, n := range r.Nodes() {
		assert.Equal(t, vm.Halted, n.State())
	}
	last, ok := r.Nodes()[4].LastOutput()
	assert.True(t, ok)
	assert.Equal(t, test.want, last)

	_, err = r.Run(ctx)
	assert.EqualError(t, err, "ring: already run")
}

func TestRing_fault(t *testing.T) {
	ctx := testContext(t)
	// nodes write input to an immediate operand after their first output.
	tape := C{3, 0, 3, 0, 4, 0, 11103, 0, 99}
	_, err := circuit.RunRing(ctx, tape, C{1, 2, 3}, 0)
	require.Error(t, err)
	assert.Equal(t, vm.ErrInvalidWriteTarget, errors.Cause(err))
}

func TestRing_cancel(t *testing.T) {
	// every node waits for more input than it gets.
	tape := C{3, 0, 3, 0, 3, 0, 99}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := circuit.RunRing(ctx, tape, C{1, 2}, 0)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.Equal(t, context.Canceled, errors.Cause(err))
	case <-time.After(5 * time.Second):
		t.Fatal("ring did not stop")
	}
}

func TestNewRing_errors(t *testing.T) {
	_, err := circuit.NewRing(C{99}, 0)
	assert.Error(t, err)
	_, err = circuit.NewRing(C{99}, 2, circuit.PortSize(-1))
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	c, err := circuit.ParseConfig(strings.NewReader(`
kind: ring
phases: [9, 8, 7, 6, 5]
seed: 0
port_size: 4
`))
	require.NoError(t, err)
	assert.Equal(t, &circuit.Config{Kind: circuit.KindRing, Phases: C{9, 8, 7, 6, 5}, PortSize: 4}, c)

	got, err := c.Run(testContext(t), ringTests[0].tape)
	require.NoError(t, err)
	assert.Equal(t, ringTests[0].want, got)

	_, err = circuit.ParseConfig(strings.NewReader("kind: star\nport_size: -1\n"))
	require.Error(t, err)
	verr, ok := err.(circuit.ValidationError)
	require.True(t, ok)
	assert.Equal(t, circuit.ValidationError{"unknown kind star", "no phases", "negative port_size"}, verr)

	_, err = circuit.ParseConfig(strings.NewReader("kind: ring\nphases: [1]\ncolor: blue\n"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	test := chainTests[1]
	require.NoError(t, vm.Save(filepath.Join(dir, "amp.txt.zst"), test.tape))
	cfg := filepath.Join(dir, "circuit.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("kind: pipeline\nphases: [0, 1, 2, 3, 4]\ntape: amp.txt.zst\n"), 0644))

	c, err := circuit.LoadConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "amp.txt.zst"), c.Tape)
	got, err := c.Run(testContext(t), nil)
	require.NoError(t, err)
	assert.Equal(t, test.want, got)

	_, err = circuit.LoadConfig(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}
