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
	"fmt"
	"io"

	"github.com/serialcom-project/go-serialcom/internal/frame"
	"github.com/serialcom-project/go-serialcom/internal/ring"
)

// Format selects the wire layout of the framed message span.
type Format int

const (
	// FormatHost frames [command][data...][crc_hi][crc_lo]. This is the
	// layout of frames addressed to the host.
	FormatHost Format = iota
	// FormatDevice frames [version][command][data...][crc_hi][crc_lo],
	// the richer device-targeted layout.
	FormatDevice
	// FormatBare frames [command][data...] with no checksum, relying on
	// the byte stuffing alone. Use only where the transport already
	// guarantees byte integrity.
	FormatBare
)

func (f Format) String() string {
	switch f {
	case FormatHost:
		return "host"
	case FormatDevice:
		return "device"
	case FormatBare:
		return "bare"
	default:
		return "unknown"
	}
}

// headerSize is the byte count before the payload.
func (f Format) headerSize() int {
	if f == FormatDevice {
		return 2
	}
	return 1
}

func (f Format) checksummed() bool {
	return f != FormatBare
}

// overhead is everything the wire adds around the payload: header,
// checksum when present, and the two stuffing bytes.
func (f Format) overhead() int {
	n := f.headerSize() + frame.StuffOverhead
	if f.checksummed() {
		n += frame.ChecksumSize
	}
	return n
}

// Frame is the unit of wire exchange. Version is meaningful only under
// FormatDevice.
type Frame struct {
	Data    []byte
	Version byte
	Command byte
}

// Codec composes a ring buffer, the byte stuffer and the checksum unit
// into framed message exchange over a byte stream. One Codec owns one
// buffer and one direction; it is not safe for concurrent use.
type Codec struct {
	buf    *ring.Buffer
	format Format
}

// maxCapacity is the largest usable codec buffer. A single-byte stuffing
// offset spans at most 255 positions, so a buffer holding more than
// MaxMessage unencoded bytes could frame a message its own decoder
// cannot walk back.
const maxCapacity = frame.MaxMessage + frame.StuffOverhead

// NewCodec creates a codec over a fresh buffer of the given capacity.
// The capacity must leave room for at least a 1-byte payload and must
// not exceed 256 bytes, the limit of single-byte stuffing offsets.
func NewCodec(capacity int, format Format) (*Codec, error) {
	if capacity <= format.overhead() {
		return nil, fmt.Errorf("capacity %d cannot frame any payload: %w", capacity, ErrBufferFull)
	}
	if capacity > maxCapacity {
		return nil, fmt.Errorf("capacity %d exceeds the %d-byte stuffing limit: %w", capacity, maxCapacity, ErrFrameTooLong)
	}
	return &Codec{buf: ring.New(capacity), format: format}, nil
}

// MaxPayload returns the largest payload one frame can carry.
func (c *Codec) MaxPayload() int {
	return c.buf.Cap() - c.format.overhead()
}

// Format returns the codec's wire layout.
func (c *Codec) Format() Format { return c.format }

// Len returns the number of buffered bytes.
func (c *Codec) Len() int { return c.buf.Len() }

// Fill pulls fresh bytes from r into the buffer with a single blocking
// read. Returns the number of bytes ingested.
func (c *Codec) Fill(r io.Reader) (int, error) {
	return c.buf.Fill(r)
}

// Drain writes all buffered bytes to w and empties the buffer.
func (c *Codec) Drain(w io.Writer) (int, error) {
	return c.buf.Drain(w)
}

// SendFrame encodes f into the buffer and returns the wire length. The
// payload size is validated before any mutation, so a failed send
// leaves previously encoded bytes untouched.
func (c *Codec) SendFrame(f Frame) (int, error) {
	if len(f.Data) > c.MaxPayload() {
		return 0, fmt.Errorf("%d bytes exceed max %d: %w", len(f.Data), c.MaxPayload(), ErrPayloadTooLarge)
	}

	c.buf.Clear()
	if c.format == FormatDevice {
		c.buf.PushBack(f.Version)
	}
	c.buf.PushBack(f.Command)
	for _, v := range f.Data {
		c.buf.PushBack(v)
	}

	if c.format.checksummed() {
		hi, lo, err := frame.Checksum(c.buf, c.buf.Len())
		if err != nil {
			return 0, err
		}
		c.buf.PushBack(hi)
		c.buf.PushBack(lo)
	}

	return frame.Stuff(c.buf)
}

// ReceiveFrame decodes one frame from the front of the buffer. dst must
// hold MaxPayload bytes; the returned Frame's Data aliases dst.
//
// ErrFrameTooShort and ErrNoTerminator mean no complete frame is
// buffered yet; the buffer is untouched and the caller should retry
// after the next Fill. Any other failure has consumed the offending
// frame, terminator included, so the next call starts clean.
func (c *Codec) ReceiveFrame(dst []byte) (Frame, error) {
	if len(dst) < c.MaxPayload() {
		return Frame{}, fmt.Errorf("%d bytes, need %d: %w", len(dst), c.MaxPayload(), ErrDestTooSmall)
	}

	msgLen, err := frame.Unstuff(c.buf)
	if err != nil {
		if errors.Is(err, frame.ErrIndex) {
			c.buf.Clear()
		}
		return Frame{}, err
	}

	minLen := c.format.headerSize()
	if c.format.checksummed() {
		minLen += frame.ChecksumSize
	}
	if msgLen < minLen {
		c.discard(msgLen)
		return Frame{}, fmt.Errorf("%d-byte message under %d-byte minimum: %w", msgLen, minLen, ErrTruncatedFrame)
	}

	var wantHi, wantLo byte
	if c.format.checksummed() {
		wantHi, wantLo, err = frame.Checksum(c.buf, msgLen-frame.ChecksumSize)
		if err != nil {
			c.buf.Clear()
			return Frame{}, err
		}
	}

	var f Frame
	if c.format == FormatDevice {
		f.Version, _ = c.buf.PopFront()
	}
	f.Command, _ = c.buf.PopFront()

	dataLen := msgLen - minLen
	for i := 0; i < dataLen; i++ {
		dst[i], _ = c.buf.PopFront()
	}
	f.Data = dst[:dataLen]

	if c.format.checksummed() {
		gotHi, _ := c.buf.PopFront()
		gotLo, _ := c.buf.PopFront()
		c.buf.PopFront() // terminator
		got := uint16(gotHi)<<8 | uint16(gotLo)
		want := uint16(wantHi)<<8 | uint16(wantLo)
		if got != want {
			return Frame{}, fmt.Errorf("got %#04x, computed %#04x: %w", got, want, ErrChecksumMismatch)
		}
	} else {
		c.buf.PopFront() // terminator
	}

	return f, nil
}

// discard consumes n message bytes plus the trailing terminator so a
// malformed frame cannot poison the next decode.
func (c *Codec) discard(n int) {
	for i := 0; i <= n; i++ {
		if _, ok := c.buf.PopFront(); !ok {
			return
		}
	}
}
