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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serialcom-project/go-serialcom/internal/testutil"
)

const testWait = 2 * time.Second

func recvRead(t *testing.T, rx *Receiver) RegRead {
	t.Helper()
	select {
	case r, ok := <-rx.RegReads:
		require.True(t, ok, "RegReads closed")
		return r
	case <-time.After(testWait):
		t.Fatal("timed out waiting for read response")
		return RegRead{}
	}
}

func recvWrite(t *testing.T, rx *Receiver) uint16 {
	t.Helper()
	select {
	case r, ok := <-rx.RegWrites:
		require.True(t, ok, "RegWrites closed")
		return r
	case <-time.After(testWait):
		t.Fatal("timed out waiting for write ack")
		return 0
	}
}

func recvStream(t *testing.T, rx *Receiver) StreamFrame {
	t.Helper()
	select {
	case s, ok := <-rx.Stream:
		require.True(t, ok, "Stream closed")
		return s
	case <-time.After(testWait):
		t.Fatal("timed out waiting for stream frame")
		return StreamFrame{}
	}
}

func TestReceiverRouting(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)
	defer tr.Close()

	tr.QueueRead(testutil.BuildReadResponse8(42, 7))
	tr.QueueRead(testutil.BuildWriteAck(42))
	tr.QueueRead(testutil.BuildStreamFrame(0x85, []byte{0, 0, 0, 0}))

	read := recvRead(t, rx)
	assert.Equal(t, RegRead{Reg: 42, Value: 7}, read)

	assert.Equal(t, uint16(42), recvWrite(t, rx))

	sf := recvStream(t, rx)
	assert.Equal(t, byte(0x85), sf.Command)
	assert.Equal(t, []byte{0, 0, 0, 0}, sf.Data)
	samples, err := UnpackSamples(sf.Command, sf.Data)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 0, 0, 0}, samples)

	// The stream frame must never leak onto the register queues.
	select {
	case r := <-rx.RegReads:
		t.Fatalf("unexpected read response %+v", r)
	case w := <-rx.RegWrites:
		t.Fatalf("unexpected write ack %d", w)
	default:
	}
}

func TestReceiver32BitReadResponse(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)
	defer tr.Close()

	tr.QueueRead(testutil.BuildReadResponse32(7, 0xDEADBEEF))
	assert.Equal(t, RegRead{Reg: 7, Value: 0xDEADBEEF}, recvRead(t, rx))
}

// A frame split across reads must be held until the terminator arrives.
func TestReceiverPartialFrameReassembly(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)
	defer tr.Close()

	wire := testutil.BuildWriteAck(42)
	tr.QueueRead(wire[:3])
	tr.QueueRead(wire[3:])

	assert.Equal(t, uint16(42), recvWrite(t, rx))
}

// A corrupted frame is logged and skipped; decoding resumes with the
// next frame in the same chunk.
func TestReceiverSkipsBadFrame(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)
	defer tr.Close()

	bad := testutil.BuildWriteAck(9)
	bad[3] ^= 0x40 // corrupt the register byte, checksum now disagrees
	chunk := append(bad, testutil.BuildWriteAck(42)...)
	tr.QueueRead(chunk)

	assert.Equal(t, uint16(42), recvWrite(t, rx))
}

// Invalid and reserved commands are skipped without touching any queue.
func TestReceiverSkipsUnexpectedCommands(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)
	defer tr.Close()

	tr.QueueRead(testutil.BuildFrame(0x00, []byte{0x01}))
	tr.QueueRead(testutil.BuildFrame(0x03, []byte{0x01}))
	tr.QueueRead(testutil.BuildWriteAck(42))

	assert.Equal(t, uint16(42), recvWrite(t, rx))
	select {
	case r := <-rx.RegReads:
		t.Fatalf("unexpected read response %+v", r)
	default:
	}
}

// Malformed register payloads are dropped, not delivered.
func TestReceiverDropsMalformedRegisterPayloads(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)
	defer tr.Close()

	tr.QueueRead(testutil.BuildFrame(0x01, []byte{0x00, 0x2A, 0x01, 0x02})) // bad length
	tr.QueueRead(testutil.BuildFrame(0x02, []byte{0x00}))                   // bad length
	tr.QueueRead(testutil.BuildReadResponse8(1, 2))

	assert.Equal(t, RegRead{Reg: 1, Value: 2}, recvRead(t, rx))
}

// Transport read failure is the death signal: every queue closes and
// Done fires.
func TestReceiverClosesOnTransportError(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)

	tr.FailReads(errors.New("port gone"))

	select {
	case <-rx.Done():
	case <-time.After(testWait):
		t.Fatal("receiver did not stop")
	}
	_, ok := <-rx.RegReads
	assert.False(t, ok)
	_, ok = <-rx.RegWrites
	assert.False(t, ok)
	_, ok = <-rx.Stream
	assert.False(t, ok)
}

// Frames already buffered when the transport dies are still delivered.
func TestReceiverDrainsBeforeDeath(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	rx, err := NewReceiver(tr, nil)
	require.NoError(t, err)

	tr.QueueRead(testutil.BuildWriteAck(42))
	assert.Equal(t, uint16(42), recvWrite(t, rx))

	tr.Close()
	rx.Wait()
}
