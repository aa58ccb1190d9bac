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
	"errors"
	"fmt"
)

// Version enumerates the CloudEvents spec versions this module understands.
// The set is closed: wire discriminators outside it fail at the boundary,
// they are never mapped to a default.
type Version int

const (
	// V03 is CloudEvents spec version 0.3.
	V03 Version = iota
	// V1 is CloudEvents spec version 1.0.
	V1
)

// Wire values of the specversion attribute.
const (
	SpecVersionV03 = "0.3"
	SpecVersionV1  = "1.0"
)

// ErrUnknownSpecVersion is returned when a specversion discriminator is not
// in the known set.
var ErrUnknownSpecVersion = errors.New("unrecognized specversion")

var versionTable = map[string]Version{
	SpecVersionV03: V03,
	SpecVersionV1:  V1,
}

// ParseVersion maps a wire discriminator to its Version.
func ParseVersion(specVersion string) (Version, error) {
	v, ok := versionTable[specVersion]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownSpecVersion, specVersion)
	}
	return v, nil
}

// Versions returns the known versions, oldest first.
func Versions() []Version {
	return []Version{V03, V1}
}

func (v Version) String() string {
	switch v {
	case V03:
		return SpecVersionV03
	case V1:
		return SpecVersionV1
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

// SchemaAttribute returns the wire name of the payload schema attribute,
// the one attribute renamed between versions.
func (v Version) SchemaAttribute() string {
	if v == V03 {
		return AttrSchemaURL
	}
	return AttrDataSchema
}

// AttributeNames returns the context attribute names of the version. Names
// outside this set on a wire message are extension candidates.
func (v Version) AttributeNames() map[string]struct{} {
	names := map[string]struct{}{
		AttrSpecVersion:     {},
		AttrID:              {},
		AttrSource:          {},
		AttrType:            {},
		AttrSubject:         {},
		AttrTime:            {},
		AttrDataContentType: {},
	}
	names[v.SchemaAttribute()] = struct{}{}
	return names
}
