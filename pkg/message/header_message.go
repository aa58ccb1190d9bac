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
	"sort"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
)

// HeaderMessage is a wire message a transport has already split into headers,
// a content type and a body. Header names arrive unprefixed and lowercased;
// stripping transport prefixes like "ce-" is the transport's job. Header
// transports carry extension values as text, so every extension folds back
// as a string.
type HeaderMessage struct {
	Headers     map[string]string
	ContentType string
	Body        []byte
}

var _ Message = (*HeaderMessage)(nil)

// NewHeaderMessage wraps already-split wire input. The maps and slices are
// retained, not copied.
func NewHeaderMessage(headers map[string]string, contentType string, body []byte) *HeaderMessage {
	if headers == nil {
		headers = map[string]string{}
	}
	return &HeaderMessage{
		Headers:     headers,
		ContentType: contentType,
		Body:        body,
	}
}

// DetectEncoding classifies wire input without consuming it. A specversion
// header means binary mode regardless of content type; otherwise an event
// format content type means structured mode; anything else is unknown.
func DetectEncoding(headers map[string]string, contentType string) Encoding {
	if _, ok := headers[event.AttrSpecVersion]; ok {
		return EncodingBinary
	}
	if format.IsFormat(contentType) {
		return EncodingStructured
	}
	return EncodingUnknown
}

func (m *HeaderMessage) Encoding() Encoding {
	return DetectEncoding(m.Headers, m.ContentType)
}

func (m *HeaderMessage) ReadBinary(ctx context.Context, w BinaryWriter) error {
	if m.Encoding() != EncodingBinary {
		return ErrNotBinary
	}
	specVersion := m.Headers[event.AttrSpecVersion]
	version, err := event.ParseVersion(specVersion)
	if err != nil {
		return err
	}
	names := version.AttributeNames()

	if err := w.Start(ctx); err != nil {
		return err
	}
	if err := w.SetAttribute(event.AttrSpecVersion, specVersion); err != nil {
		return err
	}
	// Sorted replay keeps the visit deterministic; maps have no order to
	// preserve.
	keys := make([]string, 0, len(m.Headers))
	for name := range m.Headers {
		if name == event.AttrSpecVersion {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		value := m.Headers[name]
		if _, isAttribute := names[name]; isAttribute {
			err = w.SetAttribute(name, value)
		} else {
			err = w.SetExtensionString(name, value)
		}
		if err != nil {
			return err
		}
	}
	// The payload content type rides on the transport's own header, after
	// the map so it wins over a stray datacontenttype entry.
	if m.ContentType != "" {
		if err := w.SetAttribute(event.AttrDataContentType, m.ContentType); err != nil {
			return err
		}
	}
	if len(m.Body) > 0 {
		if err := w.SetData(m.Body); err != nil {
			return err
		}
	}
	return w.End(ctx)
}

func (m *HeaderMessage) ReadStructured(ctx context.Context, w StructuredWriter) error {
	if m.Encoding() != EncodingStructured {
		return ErrNotStructured
	}
	f := format.Lookup(m.ContentType)
	if f == nil {
		return fmt.Errorf("%w: %q", format.ErrUnknownFormat, m.ContentType)
	}
	return w.SetStructuredEvent(ctx, f, m.Body)
}
