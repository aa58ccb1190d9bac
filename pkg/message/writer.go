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
	"time"

	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/types"
)

// BinaryWriter receives a binary-mode visit. Calls arrive in a fixed shape:
// Start, the specversion attribute before any other, the remaining
// attributes, the extensions, at most one SetData, then End. Extension
// values keep their scalar kind through the dedicated setters; transports
// that can only carry text stringify on their own side.
type BinaryWriter interface {
	// Start opens the visit.
	Start(ctx context.Context) error

	// SetAttribute receives one context attribute. The value is a string
	// or one of the richer attribute types (*types.Timestamp,
	// *types.URIRef); AttributeString folds any of them to wire text.
	SetAttribute(name string, value interface{}) error

	// SetExtensionString receives a string extension.
	SetExtensionString(name string, value string) error

	// SetExtensionNumber receives a numeric extension.
	SetExtensionNumber(name string, value float64) error

	// SetExtensionBool receives a boolean extension.
	SetExtensionBool(name string, value bool) error

	// SetData receives the event payload. It is never called for events
	// without data.
	SetData(data []byte) error

	// End closes the visit. Writers that buffer resolve their result here.
	End(ctx context.Context) error
}

// StructuredWriter receives a structured-mode visit: the event format and
// the serialized event, in one call.
type StructuredWriter interface {
	SetStructuredEvent(ctx context.Context, f format.Format, data []byte) error
}

// AttributeString renders a binary-mode attribute value as wire text.
func AttributeString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case *types.Timestamp:
		return v.String()
	case time.Time:
		return (&types.Timestamp{Time: v}).String()
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", value)
}
