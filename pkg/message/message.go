/*
Copyright 2024 The Envelope Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package message abstracts events in flight. A Message knows which of the
// two wire encodings it carries - binary (attributes beside the payload) or
// structured (one serialized blob) - and reveals its content only through
// visitor writers, so transports and the event model stay decoupled.
package message

import (
	"context"
	"errors"
)

// Encoding classifies how a message carries its event.
type Encoding int

const (
	// EncodingBinary carries attributes and extensions as metadata beside
	// the payload.
	EncodingBinary Encoding = iota
	// EncodingStructured carries the whole event as one serialized blob.
	EncodingStructured
	// EncodingUnknown marks input that could not be classified. It is
	// terminal: every read on such a message fails.
	EncodingUnknown
)

func (e Encoding) String() string {
	switch e {
	case EncodingBinary:
		return "binary"
	case EncodingStructured:
		return "structured"
	}
	return "unknown"
}

var (
	// ErrNotBinary is returned by ReadBinary on messages in another encoding.
	ErrNotBinary = errors.New("message is not in binary encoding")
	// ErrNotStructured is returned by ReadStructured on messages in another
	// encoding.
	ErrNotStructured = errors.New("message is not in structured encoding")
	// ErrUnknownEncoding is returned for messages that could not be
	// classified; such messages never no-op.
	ErrUnknownEncoding = errors.New("message is in unknown encoding")
)

// Message is an event in flight. Reading with a writer of the wrong mode
// fails with ErrNotBinary or ErrNotStructured rather than converting;
// conversion happens by folding into an event and re-rendering.
type Message interface {
	// Encoding reports the wire encoding the message carries.
	Encoding() Encoding

	// ReadBinary delivers the message content to a BinaryWriter: Start,
	// each attribute, each extension with its scalar kind, the payload
	// when one exists, then End.
	ReadBinary(ctx context.Context, w BinaryWriter) error

	// ReadStructured delivers the serialized event blob and its format to
	// a StructuredWriter, exactly once.
	ReadStructured(ctx context.Context, w StructuredWriter) error
}
