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

package message

import (
	"context"
	"fmt"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
)

// NewBinaryMessage exposes an in-memory event as a binary-encoding message.
// The event is not copied; messages are read-only views.
func NewBinaryMessage(e *event.Event) Message {
	return &binaryMessage{event: e}
}

type binaryMessage struct {
	event *event.Event
}

func (m *binaryMessage) Encoding() Encoding {
	return EncodingBinary
}

func (m *binaryMessage) ReadStructured(ctx context.Context, w StructuredWriter) error {
	return ErrNotStructured
}

func (m *binaryMessage) ReadBinary(ctx context.Context, w BinaryWriter) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	e := m.event
	// specversion first: buffering writers need the discriminator before
	// they can interpret anything else.
	if err := w.SetAttribute(event.AttrSpecVersion, e.SpecVersion()); err != nil {
		return err
	}
	if err := w.SetAttribute(event.AttrID, e.ID()); err != nil {
		return err
	}
	if err := w.SetAttribute(event.AttrType, e.Type()); err != nil {
		return err
	}
	if err := w.SetAttribute(event.AttrSource, e.Source()); err != nil {
		return err
	}
	if t := e.Time(); t != nil {
		if err := w.SetAttribute(event.AttrTime, t); err != nil {
			return err
		}
	}
	if schema := e.DataSchema(); schema != "" {
		if err := w.SetAttribute(e.Version().SchemaAttribute(), schema); err != nil {
			return err
		}
	}
	if subject := e.Subject(); subject != "" {
		if err := w.SetAttribute(event.AttrSubject, subject); err != nil {
			return err
		}
	}
	if ct := e.DataContentType(); ct != "" {
		if err := w.SetAttribute(event.AttrDataContentType, ct); err != nil {
			return err
		}
	}
	for _, name := range e.ExtensionNames() {
		v, ok := e.Extension(name)
		if !ok {
			continue
		}
		var err error
		switch v.Kind() {
		case event.ExtensionString:
			err = w.SetExtensionString(name, v.AsString())
		case event.ExtensionNumber:
			err = w.SetExtensionNumber(name, v.AsNumber())
		case event.ExtensionBool:
			err = w.SetExtensionBool(name, v.AsBool())
		default:
			err = fmt.Errorf("illegal value for extension %q: %s", name, v.Kind())
		}
		if err != nil {
			return err
		}
	}
	if e.HasData() {
		if err := w.SetData(e.Data()); err != nil {
			return err
		}
	}
	return w.End(ctx)
}

// NewStructuredMessage exposes an in-memory event as a structured-encoding
// message in the given format. Serialization happens lazily on read, so a
// failing codec surfaces there.
func NewStructuredMessage(e *event.Event, f format.Format) Message {
	return &structuredMessage{event: e, format: f}
}

type structuredMessage struct {
	event  *event.Event
	format format.Format
}

func (m *structuredMessage) Encoding() Encoding {
	return EncodingStructured
}

func (m *structuredMessage) ReadBinary(ctx context.Context, w BinaryWriter) error {
	return ErrNotBinary
}

func (m *structuredMessage) ReadStructured(ctx context.Context, w StructuredWriter) error {
	payload, err := m.format.Marshal(m.event)
	if err != nil {
		return err
	}
	return w.SetStructuredEvent(ctx, m.format, payload)
}
