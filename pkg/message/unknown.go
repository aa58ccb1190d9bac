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

import "context"

// UnknownMessage is the terminal message for wire input that is neither
// binary nor structured. Both reads fail with ErrUnknownEncoding so that
// unclassified traffic can never be mistaken for an empty event.
var UnknownMessage Message = unknownMessage{}

type unknownMessage struct{}

func (unknownMessage) Encoding() Encoding {
	return EncodingUnknown
}

func (unknownMessage) ReadBinary(ctx context.Context, w BinaryWriter) error {
	return ErrUnknownEncoding
}

func (unknownMessage) ReadStructured(ctx context.Context, w StructuredWriter) error {
	return ErrUnknownEncoding
}
