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

// Package messagetest provides recording messages and a toy CSV event format
// for exercising codecs and transports in tests.
package messagetest

import (
	"context"
	"fmt"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// RecordedAttribute is one SetAttribute call.
type RecordedAttribute struct {
	Name  string
	Value interface{}
}

// RecordedExtension is one typed extension call.
type RecordedExtension struct {
	Name  string
	Value event.ExtensionValue
}

// MockBinaryMessage records a binary visit verbatim and replays it as a
// message, keeping call order and extension kinds intact. Write into it
// with ReadBinary, then hand it to the next stage.
type MockBinaryMessage struct {
	Started    bool
	Ended      bool
	Attributes []RecordedAttribute
	Extensions []RecordedExtension
	Body       []byte
	BodySet    bool
}

var (
	_ message.Message      = (*MockBinaryMessage)(nil)
	_ message.BinaryWriter = (*MockBinaryMessage)(nil)
)

func (m *MockBinaryMessage) Start(ctx context.Context) error {
	m.Started = true
	return nil
}

func (m *MockBinaryMessage) SetAttribute(name string, value interface{}) error {
	m.Attributes = append(m.Attributes, RecordedAttribute{Name: name, Value: value})
	return nil
}

func (m *MockBinaryMessage) SetExtensionString(name string, value string) error {
	m.Extensions = append(m.Extensions, RecordedExtension{Name: name, Value: event.StringValue(value)})
	return nil
}

func (m *MockBinaryMessage) SetExtensionNumber(name string, value float64) error {
	m.Extensions = append(m.Extensions, RecordedExtension{Name: name, Value: event.NumberValue(value)})
	return nil
}

func (m *MockBinaryMessage) SetExtensionBool(name string, value bool) error {
	m.Extensions = append(m.Extensions, RecordedExtension{Name: name, Value: event.BoolValue(value)})
	return nil
}

func (m *MockBinaryMessage) SetData(data []byte) error {
	m.Body = append([]byte(nil), data...)
	m.BodySet = true
	return nil
}

func (m *MockBinaryMessage) End(ctx context.Context) error {
	m.Ended = true
	return nil
}

func (m *MockBinaryMessage) Encoding() message.Encoding {
	return message.EncodingBinary
}

func (m *MockBinaryMessage) ReadStructured(ctx context.Context, w message.StructuredWriter) error {
	return message.ErrNotStructured
}

func (m *MockBinaryMessage) ReadBinary(ctx context.Context, w message.BinaryWriter) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	for _, a := range m.Attributes {
		if err := w.SetAttribute(a.Name, a.Value); err != nil {
			return err
		}
	}
	for _, x := range m.Extensions {
		var err error
		switch x.Value.Kind() {
		case event.ExtensionString:
			err = w.SetExtensionString(x.Name, x.Value.AsString())
		case event.ExtensionNumber:
			err = w.SetExtensionNumber(x.Name, x.Value.AsNumber())
		case event.ExtensionBool:
			err = w.SetExtensionBool(x.Name, x.Value.AsBool())
		default:
			err = fmt.Errorf("recorded extension %q has no kind", x.Name)
		}
		if err != nil {
			return err
		}
	}
	if m.BodySet {
		if err := w.SetData(m.Body); err != nil {
			return err
		}
	}
	return w.End(ctx)
}

// AttributeValue returns the last recorded value for an attribute name.
func (m *MockBinaryMessage) AttributeValue(name string) (interface{}, bool) {
	for i := len(m.Attributes) - 1; i >= 0; i-- {
		if m.Attributes[i].Name == name {
			return m.Attributes[i].Value, true
		}
	}
	return nil, false
}

// MockStructuredMessage records the one structured delivery and replays it.
type MockStructuredMessage struct {
	Format format.Format
	Bytes  []byte
}

var (
	_ message.Message          = (*MockStructuredMessage)(nil)
	_ message.StructuredWriter = (*MockStructuredMessage)(nil)
)

func (m *MockStructuredMessage) SetStructuredEvent(ctx context.Context, f format.Format, data []byte) error {
	m.Format = f
	m.Bytes = append([]byte(nil), data...)
	return nil
}

func (m *MockStructuredMessage) Encoding() message.Encoding {
	return message.EncodingStructured
}

func (m *MockStructuredMessage) ReadBinary(ctx context.Context, w message.BinaryWriter) error {
	return message.ErrNotBinary
}

func (m *MockStructuredMessage) ReadStructured(ctx context.Context, w message.StructuredWriter) error {
	if m.Format == nil {
		return fmt.Errorf("no structured event was recorded")
	}
	return w.SetStructuredEvent(ctx, m.Format, m.Bytes)
}
