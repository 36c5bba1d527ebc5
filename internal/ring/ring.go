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

// Package ring provides the fixed-capacity circular byte buffer the wire
// protocol is built on.
package ring

import "io"

// fillChunk bounds a single Fill read so one call never pulls in more
// than a buffer's worth of bytes at the largest supported capacity.
const fillChunk = 64

// Buffer is a fixed-capacity circular byte queue with wrapping push
// semantics: pushing into a full buffer evicts the element at the opposite
// end instead of failing. This keeps memory bounded on an unreliable byte
// stream; callers that must not lose data size the buffer accordingly.
//
// Buffer is not safe for concurrent use. Each protocol direction owns
// exactly one buffer.
type Buffer struct {
	data    []byte
	scratch []byte
	head    int
	size    int
}

// New returns an empty Buffer with the given capacity. Capacity must be
// positive.
func New(capacity int) *Buffer {
	chunk := capacity
	if chunk > fillChunk {
		chunk = fillChunk
	}
	return &Buffer{
		data:    make([]byte, capacity),
		scratch: make([]byte, chunk),
	}
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int { return b.size }

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// IsFull reports whether the next push will evict an element.
func (b *Buffer) IsFull() bool { return b.size == len(b.data) }

// Clear discards all buffered bytes. The allocation is reused.
func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}

// PushBack appends v. When full, the oldest (front) element is evicted.
func (b *Buffer) PushBack(v byte) {
	if b.size == len(b.data) {
		b.data[b.head] = v
		b.head = b.next(b.head)
		return
	}
	b.data[b.index(b.size)] = v
	b.size++
}

// PushFront prepends v. When full, the newest (back) element is evicted.
func (b *Buffer) PushFront(v byte) {
	b.head = b.prev(b.head)
	b.data[b.head] = v
	if b.size < len(b.data) {
		b.size++
	}
}

// PopFront removes and returns the front element. The bool is false when
// the buffer is empty.
func (b *Buffer) PopFront() (byte, bool) {
	if b.size == 0 {
		return 0, false
	}
	v := b.data[b.head]
	b.head = b.next(b.head)
	b.size--
	return v, true
}

// PopBack removes and returns the back element. The bool is false when
// the buffer is empty.
func (b *Buffer) PopBack() (byte, bool) {
	if b.size == 0 {
		return 0, false
	}
	b.size--
	return b.data[b.index(b.size)], true
}

// Front returns the oldest element without removing it.
func (b *Buffer) Front() (byte, bool) {
	if b.size == 0 {
		return 0, false
	}
	return b.data[b.head], true
}

// Back returns the newest element without removing it.
func (b *Buffer) Back() (byte, bool) {
	if b.size == 0 {
		return 0, false
	}
	return b.data[b.index(b.size-1)], true
}

// Get returns the element at logical index i. The bool is false when i is
// out of range, which callers use to detect truncated or garbled frames.
func (b *Buffer) Get(i int) (byte, bool) {
	if i < 0 || i >= b.size {
		return 0, false
	}
	return b.data[b.index(i)], true
}

// Set overwrites the element at logical index i, reporting whether i was
// in range.
func (b *Buffer) Set(i int, v byte) bool {
	if i < 0 || i >= b.size {
		return false
	}
	b.data[b.index(i)] = v
	return true
}

// TwoSlices returns the buffered content as up to two contiguous views in
// logical order. The second slice is empty unless the content wraps the
// end of the backing array. The views alias the buffer and are invalidated
// by any mutation.
func (b *Buffer) TwoSlices() ([]byte, []byte) {
	end := b.head + b.size
	if end <= len(b.data) {
		return b.data[b.head:end], nil
	}
	return b.data[b.head:], b.data[:end-len(b.data)]
}

// Fill performs one blocking read from r and appends whatever arrived,
// evicting the oldest bytes if the buffer overflows. It returns the number
// of bytes read. A read error is returned after any bytes that did arrive
// have been buffered.
func (b *Buffer) Fill(r io.Reader) (int, error) {
	n, err := r.Read(b.scratch)
	for _, v := range b.scratch[:n] {
		b.PushBack(v)
	}
	return n, err
}

// Drain writes the entire buffered content to w in logical order and
// clears the buffer. On a short or failed write the buffer is left
// unchanged so the caller can retry.
func (b *Buffer) Drain(w io.Writer) (int, error) {
	s1, s2 := b.TwoSlices()
	n, err := w.Write(s1)
	if err != nil {
		return n, err
	}
	if len(s2) > 0 {
		m, err := w.Write(s2)
		n += m
		if err != nil {
			return n, err
		}
	}
	b.Clear()
	return n, nil
}

func (b *Buffer) index(i int) int {
	i += b.head
	if i >= len(b.data) {
		i -= len(b.data)
	}
	return i
}

func (b *Buffer) next(i int) int {
	i++
	if i == len(b.data) {
		i = 0
	}
	return i
}

func (b *Buffer) prev(i int) int {
	if i == 0 {
		return len(b.data) - 1
	}
	return i - 1
}
