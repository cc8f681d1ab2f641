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
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// DefaultPortSize is the default number of slots of a Port.
const DefaultPortSize = 32

// ErrDisconnected is returned by Port.Send once the receiving end of the port
// has been dropped. It signals that the consumer terminated and is not a
// fault.
var ErrDisconnected = errors.New("port disconnected")

// MsgKind is the kind of a Msg.
type MsgKind int

// Message kinds.
const (
	// MsgValue carries a value.
	MsgValue MsgKind = iota
	// MsgInputRequest is sent by an instance configured with RequestInput
	// right before it blocks waiting for input.
	MsgInputRequest
	// MsgClosed is returned by Port.Recv once the sender has closed the port
	// and all pending messages have been received.
	MsgClosed
)

func (k MsgKind) String() string {
	switch k {
	case MsgValue:
		return "value"
	case MsgInputRequest:
		return "input request"
	case MsgClosed:
		return "closed"
	}
	return "msg(" + strconv.Itoa(int(k)) + ")"
}

// Msg is a message exchanged over a Port.
type Msg struct {
	Kind  MsgKind
	Value Cell
}

// ValueMsg returns a MsgValue message carrying v.
func ValueMsg(v Cell) Msg {
	return Msg{Kind: MsgValue, Value: v}
}

// Port is a bounded FIFO message channel with a single sender and a single
// receiver. The sender calls Close when it will not send anymore; the
// receiver calls Drop when it stops receiving. Both are idempotent.
type Port struct {
	c     chan Msg
	done  chan struct{}
	close sync.Once
	drop  sync.Once
}

// NewPort returns a new Port with the given number of slots. If size <= 0,
// DefaultPortSize is used.
func NewPort(size int) *Port {
	if size <= 0 {
		size = DefaultPortSize
	}
	return &Port{
		c:    make(chan Msg, size),
		done: make(chan struct{}),
	}
}

// Send sends m on the port. It blocks while the port is full. It returns
// ErrDisconnected if the receiver has dropped the port, or the context error
// if ctx is done first.
func (p *Port) Send(ctx context.Context, m Msg) error {
	select {
	case <-p.done:
		return ErrDisconnected
	default:
	}
	select {
	case p.c <- m:
		return nil
	case <-p.done:
		return ErrDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv receives the next message. Once the sender has closed the port and the
// port is drained, it returns a MsgClosed message. It returns the context
// error if ctx is done first.
func (p *Port) Recv(ctx context.Context) (Msg, error) {
	select {
	case m, ok := <-p.c:
		if !ok {
			return Msg{Kind: MsgClosed}, nil
		}
		return m, nil
	case <-ctx.Done():
		return Msg{}, ctx.Err()
	}
}

// Close is called by the sender to signal that no more messages will be sent.
// Sending on a closed port panics.
func (p *Port) Close() {
	p.close.Do(func() { close(p.c) })
}

// Drop is called by the receiver to signal that it stopped receiving. Any
// blocked or subsequent Send returns ErrDisconnected.
func (p *Port) Drop() {
	p.drop.Do(func() { close(p.done) })
}

// Dropped returns a channel that is closed once the receiver dropped the
// port.
func (p *Port) Dropped() <-chan struct{} {
	return p.done
}

// Len returns the number of messages waiting in the port.
func (p *Port) Len() int {
	return len(p.c)
}
