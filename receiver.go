// go-serialcom
// Copyright (c) 2025 The SerialCom Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-serialcom.
//
// go-serialcom is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-serialcom is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-serialcom; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package serialcom

import (
	"errors"
	"io"
)

// RegRead is a decoded read-register response.
type RegRead struct {
	Reg   uint16
	Value uint32
}

// StreamFrame is one streaming telemetry frame as received: the raw
// command byte carrying the sample descriptor plus a copy of the
// payload. Decode samples with UnpackSamples.
type StreamFrame struct {
	Data    []byte
	Command byte
}

// ReceiverConfig configures the host receiver.
type ReceiverConfig struct {
	// Logger receives per-frame diagnostics. Defaults to the package
	// debug logger.
	Logger Logger
	// Capacity is the inbound ring buffer size.
	Capacity int
	// QueueDepth is the buffer depth of each outbound channel. A full
	// channel backpressures the receiver.
	QueueDepth int
}

// DefaultReceiverConfig returns the defaults used by NewReceiver when
// cfg is nil.
func DefaultReceiverConfig() *ReceiverConfig {
	return &ReceiverConfig{
		Capacity:   64,
		QueueDepth: 16,
	}
}

// Receiver continuously decodes host-format frames from a transport and
// dispatches them by command class into three queues. Each queue is
// FIFO in decode order; no ordering holds across queues.
//
// All three channels are closed when the transport read fails, which is
// the only way the receiver stops. Closure is the death signal callers
// select on.
type Receiver struct {
	// RegReads delivers read-register responses.
	RegReads <-chan RegRead
	// RegWrites delivers write acknowledgements as register numbers.
	RegWrites <-chan uint16
	// Stream delivers streaming telemetry frames.
	Stream <-chan StreamFrame

	regReads  chan RegRead
	regWrites chan uint16
	stream    chan StreamFrame

	codec *Codec
	r     io.Reader
	log   Logger
	done  chan struct{}
}

// NewReceiver starts a receiver over r. Pass nil cfg for defaults.
func NewReceiver(r io.Reader, cfg *ReceiverConfig) (*Receiver, error) {
	if cfg == nil {
		cfg = DefaultReceiverConfig()
	}
	def := DefaultReceiverConfig()
	if cfg.Capacity == 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.QueueDepth == 0 {
		cfg.QueueDepth = def.QueueDepth
	}

	codec, err := NewCodec(cfg.Capacity, FormatHost)
	if err != nil {
		return nil, err
	}

	rx := &Receiver{
		regReads:  make(chan RegRead, cfg.QueueDepth),
		regWrites: make(chan uint16, cfg.QueueDepth),
		stream:    make(chan StreamFrame, cfg.QueueDepth),
		codec:     codec,
		r:         r,
		log:       cfg.Logger,
		done:      make(chan struct{}),
	}
	if rx.log == nil {
		rx.log = debugLogger{}
	}
	rx.RegReads = rx.regReads
	rx.RegWrites = rx.regWrites
	rx.Stream = rx.stream

	go rx.run()
	return rx, nil
}

// Done is closed after the receiver has stopped and all queues are
// closed.
func (rx *Receiver) Done() <-chan struct{} { return rx.done }

// Wait blocks until the receiver has stopped.
func (rx *Receiver) Wait() { <-rx.done }

func (rx *Receiver) run() {
	defer func() {
		close(rx.regReads)
		close(rx.regWrites)
		close(rx.stream)
		close(rx.done)
	}()

	dst := make([]byte, rx.codec.MaxPayload())
	for {
		rx.decodeAll(dst)

		n, err := rx.codec.Fill(rx.r)
		if n == 0 && err != nil {
			rx.log.Printf("transport read failed, receiver stopping: %v", err)
			return
		}
	}
}

// decodeAll drains every complete frame currently buffered. Bad frames
// are logged and skipped; decoding stops only when the buffer holds no
// complete frame.
func (rx *Receiver) decodeAll(dst []byte) {
	for {
		f, err := rx.codec.ReceiveFrame(dst)
		if err != nil {
			if errors.Is(err, ErrFrameTooShort) || errors.Is(err, ErrNoTerminator) {
				return
			}
			rx.log.Printf("discarding frame: %v", err)
			continue
		}
		rx.dispatch(f)
	}
}

func (rx *Receiver) dispatch(f Frame) {
	cmd := ParseCommand(f.Command)
	switch cmd.Kind {
	case KindRegisterRead:
		reg, value, err := UnpackReadResp(f.Data)
		if err != nil {
			rx.log.Printf("read response: %v", err)
			return
		}
		rx.regReads <- RegRead{Reg: reg, Value: value}
	case KindRegisterWrite:
		reg, err := UnpackWriteAck(f.Data)
		if err != nil {
			rx.log.Printf("write ack: %v", err)
			return
		}
		rx.regWrites <- reg
	case KindStream:
		data := make([]byte, len(f.Data))
		copy(data, f.Data)
		rx.stream <- StreamFrame{Command: f.Command, Data: data}
	case KindInvalid, KindReserved:
		rx.log.Printf("unexpected command %#02x, skipping frame", f.Command)
	}
}
