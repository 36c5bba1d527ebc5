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

package testutil

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/serialcom-project/go-serialcom/internal/frame"
)

// ReceivedFrame is one decoded frame the virtual device observed.
type ReceivedFrame struct {
	Payload []byte
	Command byte
}

// VirtualDevice simulates a register device behind an io.ReadWriter.
// Frames written to it are decoded and answered: reads are served from
// the Registers map and writes update it and are acknowledged. Every
// decoded frame is recorded for assertions. Reads block until response
// bytes are available or the device is closed.
type VirtualDevice struct {
	Registers map[uint16]uint32

	mu      sync.Mutex
	cond    *sync.Cond
	inbox   []byte
	pending []byte
	frames  []ReceivedFrame
	width   int
	silent  bool
	closed  bool
}

// NewVirtualDevice creates a device with 8-bit registers.
func NewVirtualDevice() *VirtualDevice {
	d := &VirtualDevice{
		Registers: make(map[uint16]uint32),
		width:     8,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// SetWidth switches the register width used for read responses, 8 or 32.
func (d *VirtualDevice) SetWidth(width int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width = width
}

// SetSilent stops the device from answering. Decoding and recording
// still happen, so timeout paths can be exercised.
func (d *VirtualDevice) SetSilent(silent bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.silent = silent
}

// Frames returns copies of all decoded frames in arrival order.
func (d *VirtualDevice) Frames() []ReceivedFrame {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ReceivedFrame, len(d.frames))
	copy(out, d.frames)
	return out
}

// Push injects raw wire bytes into the host-facing read side, for
// unsolicited traffic like streaming telemetry.
func (d *VirtualDevice) Push(wire []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inbox = append(d.inbox, wire...)
	d.cond.Broadcast()
}

// Read blocks until response bytes are available. After Close it
// returns io.EOF once the inbox is drained.
func (d *VirtualDevice) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.inbox) == 0 && !d.closed {
		d.cond.Wait()
	}
	if len(d.inbox) == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.inbox)
	d.inbox = d.inbox[n:]
	return n, nil
}

// Write ingests host wire bytes, decoding and answering each complete
// frame. Partial frames are held until the terminator arrives.
func (d *VirtualDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	d.pending = append(d.pending, p...)
	for {
		term := -1
		for i, v := range d.pending {
			if v == frame.Terminator {
				term = i
				break
			}
		}
		if term < 0 {
			break
		}
		wire := d.pending[:term+1]
		d.pending = d.pending[term+1:]
		if err := d.serve(wire); err != nil {
			return 0, fmt.Errorf("virtual device: %w", err)
		}
	}
	return len(p), nil
}

// Close wakes blocked readers; subsequent reads drain and return EOF.
func (d *VirtualDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.cond.Broadcast()
	return nil
}

// serve decodes one wire frame and synthesizes the reply. Called with
// the lock held.
func (d *VirtualDevice) serve(wire []byte) error {
	buf := make([]byte, len(wire))
	copy(buf, wire)
	n, err := frame.UnstuffSlice(buf)
	if err != nil {
		return err
	}
	msg := buf[1 : 1+n]
	if len(msg) < 3 {
		return frame.ErrFrameTooShort
	}
	body, crcBytes := msg[:len(msg)-2], msg[len(msg)-2:]
	if got, want := binary.BigEndian.Uint16(crcBytes), frame.CRC16(body); got != want {
		return fmt.Errorf("checksum %#04x, computed %#04x", got, want)
	}

	cmd, payload := body[0], body[1:]
	rec := ReceivedFrame{Command: cmd, Payload: make([]byte, len(payload))}
	copy(rec.Payload, payload)
	d.frames = append(d.frames, rec)

	if d.silent {
		return nil
	}
	switch cmd {
	case CmdReadReg:
		if len(payload) != 2 {
			return nil
		}
		reg := binary.BigEndian.Uint16(payload)
		if d.width == 32 {
			d.inbox = append(d.inbox, BuildReadResponse32(reg, d.Registers[reg])...)
		} else {
			d.inbox = append(d.inbox, BuildReadResponse8(reg, byte(d.Registers[reg]))...)
		}
		d.cond.Broadcast()
	case CmdWriteReg:
		var reg uint16
		switch len(payload) {
		case 3:
			reg = binary.BigEndian.Uint16(payload)
			d.Registers[reg] = uint32(payload[2])
		case 6:
			reg = binary.BigEndian.Uint16(payload)
			d.Registers[reg] = binary.BigEndian.Uint32(payload[2:])
		default:
			return nil
		}
		d.inbox = append(d.inbox, BuildWriteAck(reg)...)
		d.cond.Broadcast()
	}
	return nil
}
