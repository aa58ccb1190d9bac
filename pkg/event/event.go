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

// Package event models the CloudEvents envelope: a versioned attribute
// record, typed extension attributes and an opaque payload. Events are
// immutable once built; Builder is the only way to make one.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eventmesh-labs/envelope/pkg/types"
)

// ErrUnknownAttribute is returned by Attribute for names that are not
// context attributes of the event's spec version.
var ErrUnknownAttribute = errors.New("unknown context attribute")

// Event is an immutable CloudEvents value. The payload is opaque bytes; the
// module never interprets it. Returned slices and maps must be treated as
// read-only.
type Event struct {
	context    Context
	data       []byte
	extensions Extensions
}

// Context returns a copy of the attribute record.
func (e *Event) Context() Context {
	return e.context.Clone()
}

// Version reports the closed spec version of the event.
func (e *Event) Version() Version { return e.context.Version() }

// SpecVersion returns the wire discriminator, "0.3" or "1.0".
func (e *Event) SpecVersion() string { return e.context.GetSpecVersion() }

// ID returns the id attribute.
func (e *Event) ID() string { return e.context.GetID() }

// Type returns the type attribute.
func (e *Event) Type() string { return e.context.GetType() }

// Source returns the source attribute.
func (e *Event) Source() string { return e.context.GetSource() }

// Subject returns the subject attribute, "" when absent.
func (e *Event) Subject() string { return e.context.GetSubject() }

// Time returns the time attribute, nil when absent.
func (e *Event) Time() *types.Timestamp { return e.context.GetTime() }

// DataContentType returns the datacontenttype attribute, "" when absent.
func (e *Event) DataContentType() string { return e.context.GetDataContentType() }

// DataSchema returns the payload schema attribute whatever its wire name is
// for the version, "" when absent.
func (e *Event) DataSchema() string { return e.context.GetDataSchema() }

// Data returns the payload, nil when the event carries none. The slice is
// the event's own storage: read, don't write.
func (e *Event) Data() []byte { return e.data }

// HasData reports whether the event carries a payload.
func (e *Event) HasData() bool { return len(e.data) > 0 }

// Extensions returns a copy of the extension attributes.
func (e *Event) Extensions() Extensions { return e.extensions.Clone() }

// Extension looks up one extension attribute.
func (e *Event) Extension(name string) (ExtensionValue, bool) {
	v, ok := e.extensions[name]
	return v, ok
}

// ExtensionNames returns the extension names sorted.
func (e *Event) ExtensionNames() []string { return e.extensions.Names() }

// Attribute looks up a context attribute by its wire name for the event's
// spec version. Absent optionals return (nil, nil). Names outside the
// version's attribute set fail with ErrUnknownAttribute; extensions are not
// attributes, use Extension for those.
func (e *Event) Attribute(name string) (interface{}, error) {
	switch name {
	case AttrSpecVersion:
		return e.SpecVersion(), nil
	case AttrID:
		return e.ID(), nil
	case AttrType:
		return e.Type(), nil
	case AttrSource:
		return e.Source(), nil
	case AttrSubject:
		if s := e.Subject(); s != "" {
			return s, nil
		}
		return nil, nil
	case AttrTime:
		if t := e.Time(); t != nil {
			return t, nil
		}
		return nil, nil
	case AttrDataContentType:
		if ct := e.DataContentType(); ct != "" {
			return ct, nil
		}
		return nil, nil
	case e.Version().SchemaAttribute():
		if s := e.DataSchema(); s != "" {
			return s, nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q is not a specversion %s attribute", ErrUnknownAttribute, name, e.SpecVersion())
}

// ToV03 returns the event with attributes migrated to spec version 0.3.
// Payload and extensions carry over untouched; an event already at 0.3 is
// returned as is.
func (e *Event) ToV03() *Event {
	if e.Version() == V03 {
		return e
	}
	return &Event{context: e.context.AsV03(), data: e.data, extensions: e.extensions}
}

// ToV1 returns the event with attributes migrated to spec version 1.0.
// Payload and extensions carry over untouched; an event already at 1.0 is
// returned as is.
func (e *Event) ToV1() *Event {
	if e.Version() == V1 {
		return e
	}
	return &Event{context: e.context.AsV1(), data: e.data, extensions: e.extensions}
}

// Validate reports every constraint the attribute record breaks.
func (e *Event) Validate() error {
	if e.context == nil {
		return errors.New("every event MUST include a context")
	}
	return e.context.Validate()
}

// Equal reports structural equality: same version, same attributes (time
// compared as an instant), same payload bytes, same typed extensions.
func (e *Event) Equal(other *Event) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Version() != other.Version() ||
		e.ID() != other.ID() ||
		e.Type() != other.Type() ||
		e.Source() != other.Source() ||
		e.Subject() != other.Subject() ||
		e.DataContentType() != other.DataContentType() ||
		e.DataSchema() != other.DataSchema() {
		return false
	}
	et, ot := e.Time(), other.Time()
	if (et == nil) != (ot == nil) {
		return false
	}
	if et != nil && !et.Equal(ot.Time) {
		return false
	}
	if !bytes.Equal(e.data, other.data) {
		return false
	}
	if len(e.extensions) != len(other.extensions) {
		return false
	}
	for name, v := range e.extensions {
		if ov, ok := other.extensions[name]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String returns a pretty-printed representation of the event.
func (e *Event) String() string {
	b := strings.Builder{}

	b.WriteString("Validation: ")
	if err := e.Validate(); err == nil {
		b.WriteString("valid\n")
	} else {
		b.WriteString("invalid\n")
		b.WriteString(fmt.Sprintf("Validation Error: \n%s\n", err.Error()))
	}

	b.WriteString("Context Attributes,\n")
	b.WriteString("  specversion: " + e.SpecVersion() + "\n")
	b.WriteString("  type: " + e.Type() + "\n")
	b.WriteString("  source: " + e.Source() + "\n")
	b.WriteString("  id: " + e.ID() + "\n")
	if t := e.Time(); t != nil {
		b.WriteString("  time: " + t.String() + "\n")
	}
	if s := e.DataSchema(); s != "" {
		b.WriteString("  " + e.Version().SchemaAttribute() + ": " + s + "\n")
	}
	if s := e.Subject(); s != "" {
		b.WriteString("  subject: " + s + "\n")
	}
	if ct := e.DataContentType(); ct != "" {
		b.WriteString("  datacontenttype: " + ct + "\n")
	}

	if len(e.extensions) > 0 {
		b.WriteString("Extensions,\n")
		keys := make([]string, 0, len(e.extensions))
		for k := range e.extensions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			b.WriteString(fmt.Sprintf("  %s: %s\n", key, e.extensions[key].Emit()))
		}
	}

	if e.HasData() {
		b.WriteString("Data,\n  ")
		if strings.HasPrefix(e.DataContentType(), "application/json") {
			var prettyJSON bytes.Buffer
			if err := json.Indent(&prettyJSON, e.data, "  ", "  "); err != nil {
				b.Write(e.data)
			} else {
				b.Write(prettyJSON.Bytes())
			}
		} else {
			b.Write(e.data)
		}
		b.WriteString("\n")
	}
	return b.String()
}
