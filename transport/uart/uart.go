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

// Package uart opens a serial port as the byte stream under a
// serialcom client.
package uart

import (
	"fmt"
	"sync"
	"time"

	serialcom "github.com/serialcom-project/go-serialcom"
	"go.bug.st/serial"
)

const defaultBaudRate = 115200

// Transport is a serial port implementing io.ReadWriteCloser.
type Transport struct {
	port     serial.Port
	portName string
	baudRate int
	mu       sync.Mutex
	closed   bool
}

// Option configures a Transport before the port is opened.
type Option func(*Transport) error

// WithBaudRate sets the port speed. Defaults to 115200.
func WithBaudRate(baud int) Option {
	return func(t *Transport) error {
		if baud <= 0 {
			return fmt.Errorf("baud rate %d must be positive", baud)
		}
		t.baudRate = baud
		return nil
	}
}

// New opens the named serial port in 8N1 mode.
func New(portName string, opts ...Option) (*Transport, error) {
	t := &Transport{
		portName: portName,
		baudRate: defaultBaudRate,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	mode := &serial.Mode{
		BaudRate: t.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, serialcom.NewTransportError("open", portName, err, serialcom.ErrorTypePermanent)
	}
	t.port = port
	return t, nil
}

// Read pulls bytes from the port, blocking until data arrives.
func (t *Transport) Read(p []byte) (int, error) {
	port := t.activePort()
	if port == nil {
		return 0, serialcom.NewTransportError("read", t.portName, serialcom.ErrTransportRead, serialcom.ErrorTypePermanent)
	}
	n, err := port.Read(p)
	if err != nil {
		return n, serialcom.NewTransportError("read", t.portName, err, serialcom.ErrorTypeTransient)
	}
	return n, nil
}

// Write pushes bytes to the port.
func (t *Transport) Write(p []byte) (int, error) {
	port := t.activePort()
	if port == nil {
		return 0, serialcom.NewTransportError("write", t.portName, serialcom.ErrTransportWrite, serialcom.ErrorTypePermanent)
	}
	n, err := port.Write(p)
	if err != nil {
		return n, serialcom.NewTransportError("write", t.portName, err, serialcom.ErrorTypeTransient)
	}
	return n, nil
}

// SetTimeout bounds each blocking Read. Zero disables the bound.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	port := t.activePort()
	if port == nil {
		return serialcom.NewTransportError("setTimeout", t.portName, serialcom.ErrTransportRead, serialcom.ErrorTypePermanent)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("set read timeout on %s: %w", t.portName, err)
	}
	return nil
}

// Port returns the port name.
func (t *Transport) Port() string { return t.portName }

// IsConnected reports whether the port is open.
func (t *Transport) IsConnected() bool {
	return t.activePort() != nil
}

// Close closes the port. Safe to call twice.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.port == nil {
		return nil
	}
	t.closed = true
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.portName, err)
	}
	return nil
}

func (t *Transport) activePort() serial.Port {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	return t.port
}

// ListPorts enumerates the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
