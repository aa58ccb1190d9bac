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

package event

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/eventmesh-labs/envelope/pkg/types"
)

// Builder accumulates attributes, extensions and a payload for one event and
// seals them with Build. It is a plain mutable struct, local to a single
// construction sequence, and not safe for concurrent use. Setter failures
// (unparseable typed attributes, unsupported extension values) are collected
// and reported by Build, so chains stay readable.
type Builder struct {
	version         Version
	id              string
	eventType       string
	source          *types.URIRef
	subject         *string
	time            *types.Timestamp
	schema          *types.URIRef
	dataContentType *string
	data            []byte
	extensions      Extensions
	errs            error
}

// NewBuilder returns a Builder producing events at the given spec version.
func NewBuilder(v Version) *Builder {
	return &Builder{version: v}
}

// NewV03 returns a Builder for spec version 0.3.
func NewV03() *Builder { return NewBuilder(V03) }

// NewV1 returns a Builder for spec version 1.0.
func NewV1() *Builder { return NewBuilder(V1) }

// BuilderFor resolves the builder for a wire discriminator. Unrecognized
// discriminators fail with ErrUnknownSpecVersion; there is no default
// version.
func BuilderFor(specVersion string) (*Builder, error) {
	v, err := ParseVersion(specVersion)
	if err != nil {
		return nil, err
	}
	return NewBuilder(v), nil
}

// From returns a Builder pre-loaded with every attribute, extension and the
// payload of an existing event, at that event's version.
func From(e *Event) *Builder {
	b := NewBuilder(e.Version())
	b.id = e.ID()
	b.eventType = e.Type()
	if s := e.Source(); s != "" {
		b.source, _ = types.ParseURIRef(s)
	}
	if s := e.Subject(); s != "" {
		b.subject = &s
	}
	if t := e.Time(); t != nil {
		ts := *t
		b.time = &ts
	}
	if s := e.DataSchema(); s != "" {
		b.schema, _ = types.ParseURIRef(s)
	}
	if ct := e.DataContentType(); ct != "" {
		b.dataContentType = &ct
	}
	if e.HasData() {
		b.data = append([]byte(nil), e.Data()...)
	}
	b.extensions = e.Extensions()
	return b
}

// WithID sets the id attribute.
func (b *Builder) WithID(id string) *Builder {
	b.id = id
	return b
}

// WithType sets the type attribute.
func (b *Builder) WithType(t string) *Builder {
	b.eventType = t
	return b
}

// WithSource sets the source attribute from its string form.
func (b *Builder) WithSource(source string) *Builder {
	u, err := types.ParseURIRef(source)
	if err != nil {
		b.errs = multierr.Append(b.errs, fmt.Errorf("source: %w", err))
		return b
	}
	b.source = u
	return b
}

// WithSubject sets the subject attribute.
func (b *Builder) WithSubject(subject string) *Builder {
	b.subject = &subject
	return b
}

// WithTime sets the time attribute.
func (b *Builder) WithTime(t time.Time) *Builder {
	b.time = &types.Timestamp{Time: t}
	return b
}

// WithDataSchema sets the payload schema attribute (schemaurl in 0.3,
// dataschema in 1.0) from its string form.
func (b *Builder) WithDataSchema(schema string) *Builder {
	u, err := types.ParseURIRef(schema)
	if err != nil {
		b.errs = multierr.Append(b.errs, fmt.Errorf("%s: %w", b.version.SchemaAttribute(), err))
		return b
	}
	b.schema = u
	return b
}

// WithDataContentType sets the datacontenttype attribute.
func (b *Builder) WithDataContentType(contentType string) *Builder {
	b.dataContentType = &contentType
	return b
}

// WithData sets the payload and, when contentType is non-empty, the
// datacontenttype attribute alongside it.
func (b *Builder) WithData(contentType string, data []byte) *Builder {
	if contentType != "" {
		b.dataContentType = &contentType
	}
	b.data = append([]byte(nil), data...)
	return b
}

// WithExtension sets one extension attribute. The value is canonicalized
// into its tagged scalar form; values outside the string/number/boolean set
// make Build fail with ErrUnsupportedExtensionType.
func (b *Builder) WithExtension(name string, value interface{}) *Builder {
	v, err := NewExtensionValue(value)
	if err != nil {
		b.errs = multierr.Append(b.errs, fmt.Errorf("extension %q: %w", name, err))
		return b
	}
	if b.extensions == nil {
		b.extensions = Extensions{}
	}
	b.extensions[name] = v
	return b
}

// SetAttribute sets a context attribute from its wire string form, applying
// the typed decoding the attribute's declared type requires. Unparseable
// values fail immediately. A specversion value is accepted only when it
// matches the builder's version; names outside the version's attribute set
// fail with ErrUnknownAttribute.
func (b *Builder) SetAttribute(name, value string) error {
	switch name {
	case AttrSpecVersion:
		v, err := ParseVersion(value)
		if err != nil {
			return err
		}
		if v != b.version {
			return fmt.Errorf("specversion %q does not match the builder's version %q", value, b.version)
		}
	case AttrID:
		b.id = value
	case AttrType:
		b.eventType = value
	case AttrSubject:
		b.subject = &value
	case AttrDataContentType:
		b.dataContentType = &value
	case AttrTime:
		ts, err := types.ParseTimestamp(value)
		if err != nil {
			return fmt.Errorf("time: %w", err)
		}
		b.time = ts
	case AttrSource:
		u, err := types.ParseURIRef(value)
		if err != nil {
			return fmt.Errorf("source: %w", err)
		}
		b.source = u
	case b.version.SchemaAttribute():
		u, err := types.ParseURIRef(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		b.schema = u
	default:
		return fmt.Errorf("%w: %q is not a specversion %s attribute", ErrUnknownAttribute, name, b.version)
	}
	return nil
}

// Build validates the accumulated attributes and seals them into an
// immutable Event. Deferred setter failures and validation failures are
// reported together.
func (b *Builder) Build() (*Event, error) {
	ctx := b.newContext()
	if err := multierr.Combine(b.errs, ctx.Validate()); err != nil {
		return nil, err
	}
	return &Event{
		context:    ctx,
		data:       b.data,
		extensions: b.extensions.Clone(),
	}, nil
}

func (b *Builder) newContext() Context {
	var source types.URIRef
	if b.source != nil {
		source = *b.source
	}
	if b.version == V03 {
		return &ContextV03{
			SpecVersion:     SpecVersionV03,
			ID:              b.id,
			Type:            b.eventType,
			Source:          source,
			Subject:         b.subject,
			Time:            b.time,
			SchemaURL:       b.schema,
			DataContentType: b.dataContentType,
		}
	}
	return &ContextV1{
		SpecVersion:     SpecVersionV1,
		ID:              b.id,
		Type:            b.eventType,
		Source:          source,
		Subject:         b.subject,
		Time:            b.time,
		DataSchema:      b.schema,
		DataContentType: b.dataContentType,
	}
}
