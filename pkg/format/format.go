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

// Package format holds the structured-mode codecs: serializers that carry a
// whole event, attributes and payload together, as one blob under a single
// media type. Formats register themselves in a media-type-keyed registry.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eventmesh-labs/envelope/pkg/event"
)

// Format marshals and unmarshals structured events to bytes.
type Format interface {
	// MediaType identifies the format.
	MediaType() string
	// Marshal serializes a whole event to bytes.
	Marshal(*event.Event) ([]byte, error)
	// Unmarshal deserializes bytes to a new event.
	Unmarshal([]byte) (*event.Event, error)
}

// Prefix of every event-format media type.
const Prefix = "application/cloudevents"

// IsFormat reports whether mediaType names an event format, i.e. begins
// with "application/cloudevents".
func IsFormat(mediaType string) bool { return strings.HasPrefix(mediaType, Prefix) }

// ErrUnknownFormat is returned when no registered format serves a media type.
var ErrUnknownFormat = errors.New("unknown event format media-type")

func unknown(mediaType string) error {
	return fmt.Errorf("%w %q", ErrUnknownFormat, mediaType)
}

// built-in formats
var formats map[string]Format

func init() {
	formats = map[string]Format{}
	Add(JSON)
}

// Add registers a Format; it can be retrieved by Lookup(f.MediaType()).
func Add(f Format) { formats[f.MediaType()] = f }

// Lookup returns the format for a media type, or nil if none is registered.
// Media type parameters ("; charset=...") and case are ignored.
func Lookup(mediaType string) Format {
	if i := strings.IndexRune(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return formats[strings.ToLower(strings.TrimSpace(mediaType))]
}

// Marshal serializes an event using the mediaType event format.
func Marshal(mediaType string, e *event.Event) ([]byte, error) {
	if f := Lookup(mediaType); f != nil {
		return f.Marshal(e)
	}
	return nil, unknown(mediaType)
}

// Unmarshal deserializes bytes using the mediaType event format.
func Unmarshal(mediaType string, b []byte) (*event.Event, error) {
	if f := Lookup(mediaType); f != nil {
		return f.Unmarshal(b)
	}
	return nil, unknown(mediaType)
}
