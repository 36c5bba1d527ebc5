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

// Package testutil builds wire-exact frames and simulates a register
// device for tests.
package testutil

import (
	"encoding/binary"

	"github.com/serialcom-project/go-serialcom/internal/frame"
)

// Command bytes for reference
const (
	CmdReadReg  = 0x01
	CmdWriteReg = 0x02
)

// BuildFrame creates a complete host-format wire frame: command,
// payload, CRC, COBS stuffing and terminator.
func BuildFrame(cmd byte, data []byte) []byte {
	msg := make([]byte, 0, len(data)+3)
	msg = append(msg, cmd)
	msg = append(msg, data...)
	crc := frame.CRC16(msg)
	msg = append(msg, byte(crc>>8), byte(crc))
	out, err := frame.StuffSlice(msg)
	if err != nil {
		panic(err)
	}
	return out
}

// BuildVersionedFrame creates a device-format wire frame with a leading
// version byte.
func BuildVersionedFrame(version, cmd byte, data []byte) []byte {
	msg := make([]byte, 0, len(data)+4)
	msg = append(msg, version, cmd)
	msg = append(msg, data...)
	crc := frame.CRC16(msg)
	msg = append(msg, byte(crc>>8), byte(crc))
	out, err := frame.StuffSlice(msg)
	if err != nil {
		panic(err)
	}
	return out
}

// BuildBareFrame creates a checksum-less wire frame.
func BuildBareFrame(cmd byte, data []byte) []byte {
	msg := make([]byte, 0, len(data)+1)
	msg = append(msg, cmd)
	msg = append(msg, data...)
	out, err := frame.StuffSlice(msg)
	if err != nil {
		panic(err)
	}
	return out
}

// BuildWriteAck creates the device's write acknowledgement frame.
func BuildWriteAck(reg uint16) []byte {
	var p [2]byte
	binary.BigEndian.PutUint16(p[:], reg)
	return BuildFrame(CmdWriteReg, p[:])
}

// BuildReadResponse8 creates the device's 8-bit read response frame.
func BuildReadResponse8(reg uint16, value byte) []byte {
	var p [3]byte
	binary.BigEndian.PutUint16(p[:], reg)
	p[2] = value
	return BuildFrame(CmdReadReg, p[:])
}

// BuildReadResponse32 creates the device's 32-bit read response frame.
func BuildReadResponse32(reg uint16, value uint32) []byte {
	var p [6]byte
	binary.BigEndian.PutUint16(p[:], reg)
	binary.BigEndian.PutUint32(p[2:], value)
	return BuildFrame(CmdReadReg, p[:])
}

// BuildStreamFrame creates a streaming telemetry frame for the given
// descriptor byte.
func BuildStreamFrame(cmd byte, payload []byte) []byte {
	return BuildFrame(cmd, payload)
}
