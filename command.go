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

import "encoding/binary"

// Command byte values. Everything from CmdStreamBase up is streaming
// telemetry; the byte itself carries the sample format.
const (
	CmdInvalid    byte = 0x00
	CmdReadReg    byte = 0x01
	CmdWriteReg   byte = 0x02
	CmdStreamBase byte = 0x80
)

// CommandKind is the routing class decoded from a command byte.
type CommandKind int

const (
	// KindInvalid is command 0, reserved as invalid.
	KindInvalid CommandKind = iota
	// KindRegisterRead is a read-register request or response.
	KindRegisterRead
	// KindRegisterWrite is a write-register request or acknowledgement.
	KindRegisterWrite
	// KindReserved covers the unassigned range 0x03..0x7F.
	KindReserved
	// KindStream is streaming telemetry (0x80..0xFF).
	KindStream
)

func (k CommandKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindRegisterRead:
		return "register-read"
	case KindRegisterWrite:
		return "register-write"
	case KindReserved:
		return "reserved"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// StreamFormat is the sample descriptor packed into a streaming command
// byte. Width code c (low 3 bits) maps to 4<<(c-1) bits per word, so
// codes 2, 3 and 4 select the required 8-, 16- and 32-bit widths.
// WordBits is 0 when the width code is 0.
type StreamFormat struct {
	WordBits       int
	WordsPerSample int
}

// Command is a command byte decoded once into its routing class plus,
// for streaming, the sample format. Decoding up front keeps the
// bit-field arithmetic out of every dispatch site.
type Command struct {
	Byte   byte
	Kind   CommandKind
	Stream StreamFormat
}

// ParseCommand classifies a raw command byte.
func ParseCommand(cmd byte) Command {
	c := Command{Byte: cmd}
	switch {
	case cmd == CmdInvalid:
		c.Kind = KindInvalid
	case cmd == CmdReadReg:
		c.Kind = KindRegisterRead
	case cmd == CmdWriteReg:
		c.Kind = KindRegisterWrite
	case cmd < CmdStreamBase:
		c.Kind = KindReserved
	default:
		c.Kind = KindStream
		c.Stream = parseStreamFormat(cmd)
	}
	return c
}

func parseStreamFormat(cmd byte) StreamFormat {
	f := StreamFormat{}
	if code := cmd & 0x07; code > 0 {
		f.WordBits = 4 << (code - 1)
	}
	f.WordsPerSample = int(cmd>>3) & 0x0F
	if f.WordsPerSample == 0 {
		f.WordsPerSample = 1
	}
	return f
}

// UnpackSamples decodes a streaming payload into unsigned samples,
// big-endian word assembly. Widths other than 8, 16 and 32 bits, and
// payloads the declared width does not evenly divide, fall back to
// one 8-bit sample per byte rather than dropping the telemetry.
// Multi-word samples are an unsupported extension; each word is
// delivered as its own sample.
func UnpackSamples(cmd byte, payload []byte) ([]uint32, error) {
	c := ParseCommand(cmd)
	if c.Kind != KindStream {
		return nil, ErrUnexpectedCommand
	}

	width := c.Stream.WordBits
	switch width {
	case 8, 16, 32:
	default:
		width = 8
	}
	size := width / 8
	if len(payload)%size != 0 {
		width, size = 8, 1
	}

	samples := make([]uint32, 0, len(payload)/size)
	for i := 0; i < len(payload); i += size {
		switch width {
		case 8:
			samples = append(samples, uint32(payload[i]))
		case 16:
			samples = append(samples, uint32(binary.BigEndian.Uint16(payload[i:])))
		case 32:
			samples = append(samples, binary.BigEndian.Uint32(payload[i:]))
		}
	}
	return samples, nil
}
