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

// Stuff COBS-encodes the buffer in place. The buffer must hold exactly one
// unencoded message with room for the overhead byte and terminator. Each
// zero in the body is rewritten with the distance to the next zero; the
// overhead byte carries the distance to the first one, and the trailing
// zero terminates the frame. Returns the encoded length.
func Stuff(b *ring.Buffer) (int, error) {
	if b.Len() == 0 {
		return 0, ErrFrameTooShort
	}
	if b.Len() > MaxMessage {
		return 0, ErrFrameTooLong
	}
	if b.Len() > b.Cap()-StuffOverhead {
		return 0, ErrBufferFull
	}
	b.PushFront(0)
	b.PushBack(Terminator)

	lastZero := 0
	n := b.Len()
	for i := 1; i < n; i++ {
		v, ok := b.Get(i)
		if !ok {
			return 0, ErrIndex
		}
		if v == 0 {
			if !b.Set(lastZero, byte(i-lastZero)) {
				return 0, ErrIndex
			}
			lastZero = i
		}
	}
	return n, nil
}

// Unstuff decodes one COBS frame from the front of the buffer. Stray
// terminators before the frame are discarded. The offset chain is verified
// to reach a terminator before anything is rewritten, so a partial frame
// is left intact for a later attempt once more bytes arrive. On success
// the overhead byte has been consumed and the message bytes sit at the
// front ready for header parsing, with the terminator still in place after
// them; the returned length covers the message only.
func Unstuff(b *ring.Buffer) (int, error) {
	for {
		v, ok := b.Get(0)
		if !ok || v != Terminator {
			break
		}
		b.PopFront()
	}

	n := b.Len()
	if n < MinEncoded {
		return 0, ErrFrameTooShort
	}

	// Verification pass: follow the offsets without touching them.
	term := 0
	for {
		if term >= n {
			return 0, ErrNoTerminator
		}
		v, _ := b.Get(term)
		if v == 0 {
			break
		}
		term += int(v)
	}

	for i := 0; i < term; {
		v, _ := b.Get(i)
		b.Set(i, 0)
		i += int(v)
	}
	b.PopFront()
	return term - 1, nil
}

// StuffSlice is the contiguous-buffer variant of Stuff. It returns a new
// slice holding the overhead byte, the stuffed body, and the terminator.
func StuffSlice(msg []byte) ([]byte, error) {
	if len(msg) == 0 {
		return nil, ErrFrameTooShort
	}
	if len(msg) > MaxMessage {
		return nil, ErrFrameTooLong
	}
	out := make([]byte, 0, len(msg)+StuffOverhead)
	out = append(out, 0)
	out = append(out, msg...)
	out = append(out, Terminator)

	lastZero := 0
	for i := 1; i < len(out); i++ {
		if out[i] == 0 {
			out[lastZero] = byte(i - lastZero)
			lastZero = i
		}
	}
	return out, nil
}

// UnstuffSlice decodes one COBS frame in place in a contiguous buffer.
// The contract matches Unstuff: on success the message occupies
// p[1 : 1+n] with the terminator at p[1+n], and n is returned.
func UnstuffSlice(p []byte) (int, error) {
	if len(p) < MinEncoded {
		return 0, ErrFrameTooShort
	}
	term := 0
	for {
		if term >= len(p) {
			return 0, ErrNoTerminator
		}
		if p[term] == 0 {
			break
		}
		term += int(p[term])
	}
	for i := 0; i < term; {
		v := p[i]
		p[i] = 0
		i += int(v)
	}
	return term - 1, nil
}
