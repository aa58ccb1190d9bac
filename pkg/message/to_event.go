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

// ToEvent folds a message back into an immutable event. The two encodings
// take different paths: binary visits are buffered and replayed through a
// version-resolved builder once specversion is known, structured payloads go
// through the format codec. Unknown messages fail without touching a writer.
func ToEvent(ctx context.Context, m Message) (*event.Event, error) {
	if m == nil {
		return nil, ErrUnknownEncoding
	}
	switch m.Encoding() {
	case EncodingBinary:
		c := new(binaryCollector)
		if err := m.ReadBinary(ctx, c); err != nil {
			return nil, err
		}
		return c.Event()
	case EncodingStructured:
		c := new(structuredCollector)
		if err := m.ReadStructured(ctx, c); err != nil {
			return nil, err
		}
		return c.Event()
	}
	return nil, fmt.Errorf("%w: cannot fold message into an event", ErrUnknownEncoding)
}

type attributeEntry struct {
	name  string
	value interface{}
}

type extensionEntry struct {
	name  string
	value event.ExtensionValue
}

// binaryCollector buffers a binary visit in arrival order. Nothing is
// interpreted until End: only then is specversion guaranteed to have been
// seen, so the builder for the right version can be picked and replayed
// into. An unrecognized or missing specversion fails the whole visit.
type binaryCollector struct {
	specVersion string
	gotVersion  bool
	attributes  []attributeEntry
	extensions  []extensionEntry
	data        []byte
	built       *event.Event
}

var _ BinaryWriter = (*binaryCollector)(nil)

func (c *binaryCollector) Start(ctx context.Context) error {
	return nil
}

func (c *binaryCollector) SetAttribute(name string, value interface{}) error {
	if name == event.AttrSpecVersion {
		c.specVersion = AttributeString(value)
		c.gotVersion = true
		return nil
	}
	c.attributes = append(c.attributes, attributeEntry{name: name, value: value})
	return nil
}

func (c *binaryCollector) SetExtensionString(name string, value string) error {
	c.extensions = append(c.extensions, extensionEntry{name: name, value: event.StringValue(value)})
	return nil
}

func (c *binaryCollector) SetExtensionNumber(name string, value float64) error {
	c.extensions = append(c.extensions, extensionEntry{name: name, value: event.NumberValue(value)})
	return nil
}

func (c *binaryCollector) SetExtensionBool(name string, value bool) error {
	c.extensions = append(c.extensions, extensionEntry{name: name, value: event.BoolValue(value)})
	return nil
}

func (c *binaryCollector) SetData(data []byte) error {
	c.data = append([]byte(nil), data...)
	return nil
}

func (c *binaryCollector) End(ctx context.Context) error {
	if !c.gotVersion {
		return fmt.Errorf("%w: binary message carries no specversion attribute", event.ErrUnknownSpecVersion)
	}
	b, err := event.BuilderFor(c.specVersion)
	if err != nil {
		return err
	}
	for _, a := range c.attributes {
		if err := b.SetAttribute(a.name, AttributeString(a.value)); err != nil {
			return err
		}
	}
	for _, x := range c.extensions {
		b.WithExtension(x.name, x.value)
	}
	if c.data != nil {
		b.WithData("", c.data)
	}
	e, err := b.Build()
	if err != nil {
		return err
	}
	c.built = e
	return nil
}

// Event returns the folded event. It is only available after a successful
// End.
func (c *binaryCollector) Event() (*event.Event, error) {
	if c.built == nil {
		return nil, fmt.Errorf("binary visit ended without producing an event")
	}
	return c.built, nil
}

// structuredCollector decodes the one structured delivery through its
// format.
type structuredCollector struct {
	event *event.Event
}

var _ StructuredWriter = (*structuredCollector)(nil)

func (c *structuredCollector) SetStructuredEvent(ctx context.Context, f format.Format, data []byte) error {
	e, err := f.Unmarshal(data)
	if err != nil {
		return err
	}
	c.event = e
	return nil
}

func (c *structuredCollector) Event() (*event.Event, error) {
	if c.event == nil {
		return nil, fmt.Errorf("structured visit delivered no event")
	}
	return c.event, nil
}
