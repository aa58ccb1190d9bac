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

import "github.com/eventmesh-labs/envelope/pkg/types"

// Context attribute names as they appear on the wire.
const (
	AttrSpecVersion     = "specversion"
	AttrID              = "id"
	AttrSource          = "source"
	AttrType            = "type"
	AttrSubject         = "subject"
	AttrTime            = "time"
	AttrDataContentType = "datacontenttype"
	// AttrSchemaURL is the payload schema attribute name in version 0.3.
	AttrSchemaURL = "schemaurl"
	// AttrDataSchema is the payload schema attribute name in version 1.0.
	AttrDataSchema = "dataschema"
)

// Context is the versioned attribute record of an event. Implementations are
// plain structs so codecs can reach the fields, but a Context sealed into an
// Event is never modified afterwards.
type Context interface {
	// Version reports which closed spec version the record follows.
	Version() Version

	GetSpecVersion() string
	GetID() string
	GetType() string
	GetSource() string
	// GetSubject returns "" when the attribute is absent.
	GetSubject() string
	// GetTime returns nil when the attribute is absent.
	GetTime() *types.Timestamp
	// GetDataContentType returns "" when the attribute is absent.
	GetDataContentType() string
	// GetDataSchema returns the payload schema reference whatever its wire
	// name is for the version, or "" when absent.
	GetDataSchema() string

	// AsV03 and AsV1 convert between versions. The conversion renames the
	// schema attribute and rewrites specversion; every other attribute is
	// carried over untouched. Converting to the current version returns the
	// receiver's values unchanged.
	AsV03() *ContextV03
	AsV1() *ContextV1

	// Clone returns a deep copy.
	Clone() Context

	// Validate reports every constraint the record breaks, nil when it
	// conforms to its spec version.
	Validate() error
}

var (
	_ Context = (*ContextV03)(nil)
	_ Context = (*ContextV1)(nil)
)
