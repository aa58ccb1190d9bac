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

package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eventmesh-labs/envelope/pkg/message"
	"github.com/eventmesh-labs/envelope/pkg/message/messagetest"
	"github.com/eventmesh-labs/envelope/pkg/types"
)

func TestEncodingString(t *testing.T) {
	testCases := map[string]struct {
		encoding message.Encoding
		want     string
	}{
		"binary":       {message.EncodingBinary, "binary"},
		"structured":   {message.EncodingStructured, "structured"},
		"unknown":      {message.EncodingUnknown, "unknown"},
		"out of range": {message.Encoding(42), "unknown"},
	}
	for n, tc := range testCases {
		tc := tc
		t.Run(n, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.encoding.String())
		})
	}
}

func TestUnknownMessageFailsClosed(t *testing.T) {
	ctx := context.Background()
	m := message.UnknownMessage

	assert.Equal(t, message.EncodingUnknown, m.Encoding())
	assert.ErrorIs(t, m.ReadBinary(ctx, new(messagetest.MockBinaryMessage)), message.ErrUnknownEncoding)
	assert.ErrorIs(t, m.ReadStructured(ctx, new(messagetest.MockStructuredMessage)), message.ErrUnknownEncoding)

	_, err := message.ToEvent(ctx, m)
	assert.ErrorIs(t, err, message.ErrUnknownEncoding)
}

func TestAttributeString(t *testing.T) {
	ts, _ := time.Parse(time.RFC3339, "2018-04-26T14:48:09+02:00")
	testCases := map[string]struct {
		value interface{}
		want  string
	}{
		"string":    {"hello", "hello"},
		"timestamp": {&types.Timestamp{Time: ts}, "2018-04-26T14:48:09+02:00"},
		"time":      {ts, "2018-04-26T14:48:09+02:00"},
		"nil":       {nil, ""},
		"fallback":  {42, "42"},
	}
	for n, tc := range testCases {
		tc := tc
		t.Run(n, func(t *testing.T) {
			assert.Equal(t, tc.want, message.AttributeString(tc.value))
		})
	}
}
