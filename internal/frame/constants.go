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

// Package frame implements the byte-level framing primitives of the wire
// protocol: COBS byte stuffing and the CRC-16/DNP checksum.
package frame

import "errors"

// Stuffing constants. Every frame on the wire is one COBS-stuffed message:
// an overhead byte, the stuffed body, and a single zero terminator.
const (
	// Terminator is the zero "comma" byte delimiting frames on the wire.
	Terminator = 0x00

	// StuffOverhead is the per-frame cost of stuffing: the overhead byte
	// plus the terminator.
	StuffOverhead = 2

	// ChecksumSize is the wire size of the CRC-16 in checksummed formats.
	ChecksumSize = 2

	// MinEncoded is the smallest byte count that can hold a stuffed
	// frame: overhead byte, one body byte, terminator.
	MinEncoded = 3

	// MaxMessage is the longest unencoded message one frame can carry.
	// Each stuffing offset is a single byte spanning at most 255
	// positions, so a zero-free message longer than 254 bytes would wrap
	// its offset and produce an undecodable frame.
	MaxMessage = 254
)

// Framing errors, re-exported by the root package.
var (
	// ErrBufferFull means the buffer has no room for the stuffing
	// overhead and terminator.
	ErrBufferFull = errors.New("buffer too full for overhead and terminator bytes")

	// ErrFrameTooShort means fewer bytes are buffered than the smallest
	// valid frame.
	ErrFrameTooShort = errors.New("too few bytes for a frame")

	// ErrFrameTooLong means the message exceeds MaxMessage and cannot be
	// stuffed with single-byte offsets.
	ErrFrameTooLong = errors.New("message too long for single-byte stuffing offsets")

	// ErrNoTerminator means no zero terminator is reachable within the
	// buffered bytes: either a partial frame or transport desync.
	ErrNoTerminator = errors.New("no zero terminator found")

	// ErrIndex means the buffer ran out mid-operation, which indicates an
	// inconsistency between the claimed and actual frame size.
	ErrIndex = errors.New("buffer index out of range")
)
