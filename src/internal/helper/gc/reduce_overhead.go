// Copyright (c) 2024 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	WriteTo(w io.Writer) (int64, error)
	ReadFrom(r io.Reader) (int64, error)
	Bytes() []byte
	String() string
	Len() int
	Set(p []byte)
	SetString(s string)
	Reset()
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
// Buffers that were not obtained from a [bytebufferpool.Pool] are dropped.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Release resets buf and returns it to the pool.
//
// It is the deferred counterpart of [Pool.Get]:
//
//	buf := gc.Default.Get()
//	defer gc.Release(gc.Default, buf)
func Release(p Pool, buf Buffer) {
	buf.Reset()
	p.Put(buf)
}

// Default is the default buffer pool used for trust bundle reads, merged bundle
// rendering, and structured log lines.
//
// Example usage for reading a trust bundle:
//
//	buf := gc.Default.Get()
//	defer gc.Release(gc.Default, buf)
//
//	f, err := os.Open(bundlePath)
//	if err != nil {
//		return fmt.Errorf("error opening bundle: %w", err)
//	}
//	defer f.Close()
//
//	if _, err := buf.ReadFrom(f); err != nil {
//		return fmt.Errorf("error reading bundle: %w", err)
//	}
//
//	text := buf.String() // copies, safe to keep after Release
//
// Note: Bytes() aliases pooled memory. Copy anything that must outlive the buffer.
var Default Pool = &pool{p: &bytebufferpool.Pool{}}
