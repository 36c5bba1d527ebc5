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
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// RegisterWidth is the device's register size, fixed per device.
type RegisterWidth int

const (
	// RegisterWidth8 selects 8-bit register values.
	RegisterWidth8 RegisterWidth = 8
	// RegisterWidth32 selects 32-bit register values.
	RegisterWidth32 RegisterWidth = 32
)

// StreamHandler consumes decoded streaming samples. It runs on the
// client's stream goroutine; a slow handler backpressures the receiver.
type StreamHandler func(command byte, samples []uint32)

// ClientConfig holds the client settings. Zero fields take defaults.
type ClientConfig struct {
	StreamHandler StreamHandler
	Logger        Logger
	Retry         *RetryConfig
	CallTimeout   time.Duration
	RegisterWidth RegisterWidth
	OutCapacity   int
	InCapacity    int
	QueueDepth    int
}

// DefaultClientConfig returns the client defaults: 8-bit registers, a
// 200ms call timeout, a 16-byte outbound buffer, a 64-byte inbound
// buffer, and no retries.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		CallTimeout:   200 * time.Millisecond,
		RegisterWidth: RegisterWidth8,
		OutCapacity:   16,
		InCapacity:    64,
		QueueDepth:    16,
	}
}

// Client is the synchronous host-side API: blocking register reads and
// writes over a framed byte stream, with streaming telemetry handed to
// a background consumer. One call is outstanding at a time; concurrent
// callers serialize on an internal mutex.
type Client struct {
	rw         io.ReadWriter
	codec      *Codec
	rx         *Receiver
	log        Logger
	cfg        ClientConfig
	streamDone chan struct{}
	mu         sync.Mutex
}

// NewClient starts a client over rw. The receiver and the stream
// consumer goroutines run until the transport read fails or Close is
// called.
func NewClient(rw io.ReadWriter, opts ...Option) (*Client, error) {
	cfg := DefaultClientConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	codec, err := NewCodec(cfg.OutCapacity, FormatHost)
	if err != nil {
		return nil, fmt.Errorf("outbound codec: %w", err)
	}

	rx, err := NewReceiver(rw, &ReceiverConfig{
		Capacity:   cfg.InCapacity,
		QueueDepth: cfg.QueueDepth,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}

	c := &Client{
		rw:         rw,
		codec:      codec,
		rx:         rx,
		log:        cfg.Logger,
		cfg:        *cfg,
		streamDone: make(chan struct{}),
	}
	if c.log == nil {
		c.log = debugLogger{}
	}

	go c.consumeStream()
	return c, nil
}

// consumeStream drains telemetry until the receiver dies, unpacking
// samples and handing them to the configured handler.
func (c *Client) consumeStream() {
	defer close(c.streamDone)
	for sf := range c.rx.Stream {
		samples, err := UnpackSamples(sf.Command, sf.Data)
		if err != nil {
			c.log.Printf("stream frame %#02x: %v", sf.Command, err)
			continue
		}
		if c.cfg.StreamHandler != nil {
			c.cfg.StreamHandler(sf.Command, samples)
		}
	}
}

// WriteReg writes value to the device register and blocks until the
// acknowledgement arrives or the call timeout expires.
func (c *Client) WriteReg(reg uint16, value uint32) error {
	return c.WriteRegContext(context.Background(), reg, value)
}

// WriteRegContext is WriteReg honoring ctx cancellation.
func (c *Client) WriteRegContext(ctx context.Context, reg uint16, value uint32) error {
	var payload []byte
	switch c.cfg.RegisterWidth {
	case RegisterWidth32:
		payload = PackWriteReg32(reg, value)
	default:
		if value > 0xFF {
			return fmt.Errorf("value %d in 8-bit register %d: %w", value, reg, ErrValueOutOfRange)
		}
		payload = PackWriteReg8(reg, byte(value))
	}

	_, err := clientCall(ctx, c, func() (struct{}, error) {
		if err := c.send(CmdWriteReg, payload); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, c.awaitAck(ctx, reg)
	})
	return err
}

// ReadReg reads the device register, blocking until the response
// arrives or the call timeout expires.
func (c *Client) ReadReg(reg uint16) (uint32, error) {
	return c.ReadRegContext(context.Background(), reg)
}

// ReadRegContext is ReadReg honoring ctx cancellation.
func (c *Client) ReadRegContext(ctx context.Context, reg uint16) (uint32, error) {
	payload := PackReadReg(reg)
	return clientCall(ctx, c, func() (uint32, error) {
		if err := c.send(CmdReadReg, payload); err != nil {
			return 0, err
		}
		return c.awaitRead(ctx, reg)
	})
}

// clientCall serializes one outstanding register call, retrying per
// the configured policy.
func clientCall[T any](ctx context.Context, c *Client, op func() (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.rx.Done():
		var zero T
		return zero, ErrReceiverClosed
	default:
	}
	if c.cfg.Retry == nil {
		return op()
	}
	return RetryWithConfig(ctx, c.cfg.Retry, op)
}

func (c *Client) send(command byte, payload []byte) error {
	if _, err := c.codec.SendFrame(Frame{Command: command, Data: payload}); err != nil {
		return err
	}
	if _, err := c.codec.Drain(c.rw); err != nil {
		return NewTransportError("write", "", err, ErrorTypeTransient)
	}
	return nil
}

// awaitAck waits for the write acknowledgement for reg, discarding
// acks for other registers. Each delivery restarts the timeout, like
// the per-receive deadline of a blocking queue pop.
func (c *Client) awaitAck(ctx context.Context, reg uint16) error {
	timer := time.NewTimer(c.cfg.CallTimeout)
	defer timer.Stop()
	for {
		select {
		case got, ok := <-c.rx.RegWrites:
			if !ok {
				return fmt.Errorf("write reg %d: %w", reg, ErrReceiverClosed)
			}
			if got == reg {
				return nil
			}
			c.log.Printf("discarding ack for register %d while waiting on %d", got, reg)
			resetTimer(timer, c.cfg.CallTimeout)
		case <-timer.C:
			return fmt.Errorf("write reg %d: %w", reg, ErrTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) awaitRead(ctx context.Context, reg uint16) (uint32, error) {
	timer := time.NewTimer(c.cfg.CallTimeout)
	defer timer.Stop()
	for {
		select {
		case got, ok := <-c.rx.RegReads:
			if !ok {
				return 0, fmt.Errorf("read reg %d: %w", reg, ErrReceiverClosed)
			}
			if got.Reg == reg {
				return got.Value, nil
			}
			c.log.Printf("discarding response for register %d while waiting on %d", got.Reg, reg)
			resetTimer(timer, c.cfg.CallTimeout)
		case <-timer.C:
			return 0, fmt.Errorf("read reg %d: %w", reg, ErrTimeout)
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// Done is closed once the receiver has stopped, which only happens on
// transport failure or Close.
func (c *Client) Done() <-chan struct{} { return c.rx.Done() }

// Close tears down the transport when it is closeable and waits for
// the receiver and stream consumer to finish.
func (c *Client) Close() error {
	var err error
	if closer, ok := c.rw.(io.Closer); ok {
		err = closer.Close()
	}
	c.rx.Wait()
	<-c.streamDone
	debugln("client closed")
	return err
}
