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
	"io"
	"sync"
)

// MockTransport is a scripted io.ReadWriter for tests: reads deliver
// queued chunks one per call, exactly as queued, so partial-frame
// arrival can be simulated; writes are recorded. When the script is
// exhausted reads block until more chunks arrive or Close is called.
type MockTransport struct {
	// ReadErr, when set, is returned by the next Read in place of data.
	ReadErr error
	// WriteErr, when set, fails every Write.
	WriteErr error

	mu      sync.Mutex
	cond    *sync.Cond
	chunks  [][]byte
	written []byte
	closed  bool
}

// NewMockTransport creates an empty mock transport.
func NewMockTransport() *MockTransport {
	m := &MockTransport{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// QueueRead appends one read chunk to the script.
func (m *MockTransport) QueueRead(chunk []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := make([]byte, len(chunk))
	copy(c, chunk)
	m.chunks = append(m.chunks, c)
	m.cond.Broadcast()
}

// Read delivers the next queued chunk, blocking while the script is
// empty. Returns io.EOF after Close once all chunks are consumed.
func (m *MockTransport) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.chunks) == 0 && !m.closed && m.ReadErr == nil {
		m.cond.Wait()
	}
	if m.ReadErr != nil {
		err := m.ReadErr
		return 0, err
	}
	if len(m.chunks) == 0 {
		return 0, io.EOF
	}
	chunk := m.chunks[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		m.chunks[0] = chunk[n:]
	} else {
		m.chunks = m.chunks[1:]
	}
	return n, nil
}

// Write records p.
func (m *MockTransport) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	m.written = append(m.written, p...)
	return len(p), nil
}

// Written returns a copy of everything written so far.
func (m *MockTransport) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.written))
	copy(out, m.written)
	return out
}

// FailReads makes the next Read return err, waking a blocked reader.
func (m *MockTransport) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadErr = err
	m.cond.Broadcast()
}

// Close wakes blocked readers; reads drain the script then return EOF.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
	return nil
}
