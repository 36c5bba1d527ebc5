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

package frame

import "github.com/serialcom-project/go-serialcom/internal/ring"

// crcPoly is the CRC-16/DNP polynomial 0x3D65 in reflected form.
const crcPoly = 0xA6BC

var crcTable = makeCRCTable()

func makeCRCTable() [256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i)
		for bit := 0; bit < 8; bit++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ crcPoly
			} else {
				crc >>= 1
			}
		}
		table[i] = crc
	}
	return table
}

// CRC16 computes the CRC-16/DNP (init 0x0000, final XOR 0xFFFF) over the
// given spans in order.
func CRC16(spans ...[]byte) uint16 {
	var crc uint16
	for _, span := range spans {
		for _, v := range span {
			crc = crc>>8 ^ crcTable[byte(crc)^v]
		}
	}
	return crc ^ 0xFFFF
}

// Checksum computes the CRC-16/DNP over the first msgLen logical bytes of
// the buffer, digesting both physical slices in order, and returns it as a
// big-endian byte pair for wire placement. msgLen never covers the whole
// buffer blindly: leftover bytes from a previous cycle must not be
// digested.
func Checksum(b *ring.Buffer, msgLen int) (hi, lo byte, err error) {
	if msgLen < 0 || msgLen > b.Len() {
		return 0, 0, ErrIndex
	}
	s1, s2 := b.TwoSlices()
	var crc uint16
	if msgLen <= len(s1) {
		crc = CRC16(s1[:msgLen])
	} else {
		crc = CRC16(s1, s2[:msgLen-len(s1)])
	}
	return byte(crc >> 8), byte(crc), nil
}
