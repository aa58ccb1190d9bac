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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/event/eventtest"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/message"
	"github.com/eventmesh-labs/envelope/pkg/message/messagetest"
)

func TestDetectEncoding(t *testing.T) {
	testCases := map[string]struct {
		headers     map[string]string
		contentType string
		want        message.Encoding
	}{
		"binary when specversion present": {
			headers:     map[string]string{"specversion": "1.0"},
			contentType: "application/json",
			want:        message.EncodingBinary,
		},
		"binary wins over structured content type": {
			headers:     map[string]string{"specversion": "0.3"},
			contentType: format.JSONMediaType,
			want:        message.EncodingBinary,
		},
		"structured on event format content type": {
			contentType: format.JSONMediaType,
			want:        message.EncodingStructured,
		},
		"structured with media type parameters": {
			contentType: format.JSONMediaType + "; charset=utf-8",
			want:        message.EncodingStructured,
		},
		"unknown on plain payload": {
			headers:     map[string]string{"content-length": "2"},
			contentType: "application/json",
			want:        message.EncodingUnknown,
		},
		"unknown on empty input": {
			want: message.EncodingUnknown,
		},
	}
	for n, tc := range testCases {
		tc := tc
		t.Run(n, func(t *testing.T) {
			assert.Equal(t, tc.want, message.DetectEncoding(tc.headers, tc.contentType))
			m := message.NewHeaderMessage(tc.headers, tc.contentType, nil)
			assert.Equal(t, tc.want, m.Encoding())
		})
	}
}

func TestHeaderMessageBinaryFold(t *testing.T) {
	ctx := context.Background()
	headers := map[string]string{
		"specversion": "1.0",
		"id":          eventtest.ID,
		"type":        eventtest.Type,
		"source":      eventtest.Source,
		"subject":     eventtest.Subject,
		"time":        eventtest.Time,
		"dataschema":  eventtest.DataSchema,
		"astring":     "aaa",
		"aboolean":    "true",
		"anumber":     "10",
	}
	m := message.NewHeaderMessage(headers, eventtest.DataContentTypeJSON, []byte("{}"))
	require.Equal(t, message.EncodingBinary, m.Encoding())

	got, err := message.ToEvent(ctx, m)
	require.NoError(t, err)

	// Header transports carry only text, so typed extensions degrade to
	// strings on the way in.
	want := eventtest.WithStringExtensions(eventtest.V1WithJSONDataWithExt())
	assert.True(t, got.Equal(want), "got:  %s\nwant: %s", got, want)

	for _, name := range []string{"astring", "aboolean", "anumber"} {
		v, ok := got.Extension(name)
		require.True(t, ok, "extension %q missing", name)
		assert.Equal(t, event.ExtensionString, v.Kind(), "extension %q kind", name)
	}
}

func TestHeaderMessageContentTypeWins(t *testing.T) {
	ctx := context.Background()
	headers := map[string]string{
		"specversion":     "1.0",
		"id":              eventtest.ID,
		"type":            eventtest.Type,
		"source":          eventtest.Source,
		"datacontenttype": "text/plain",
	}
	m := message.NewHeaderMessage(headers, "application/json", []byte("{}"))

	got, err := message.ToEvent(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.DataContentType())
}

func TestHeaderMessageWithoutBody(t *testing.T) {
	ctx := context.Background()
	headers := map[string]string{
		"specversion": "1.0",
		"id":          eventtest.ID,
		"type":        eventtest.Type,
		"source":      eventtest.Source,
	}
	m := message.NewHeaderMessage(headers, "", nil)

	got, err := message.ToEvent(ctx, m)
	require.NoError(t, err)
	assert.False(t, got.HasData(), "an empty body must not become data")
	assert.True(t, got.Equal(eventtest.V1Min()), "got:  %s\nwant: %s", got, eventtest.V1Min())
}

func TestHeaderMessageSchemaURLOnV03(t *testing.T) {
	ctx := context.Background()
	headers := map[string]string{
		"specversion": "0.3",
		"id":          eventtest.ID,
		"type":        eventtest.Type,
		"source":      eventtest.Source,
		"schemaurl":   eventtest.DataSchema,
	}
	m := message.NewHeaderMessage(headers, "", nil)

	got, err := message.ToEvent(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, event.V03, got.Version())
	assert.Equal(t, eventtest.DataSchema, got.DataSchema())
}

func TestHeaderMessageUnrecognizedSpecVersion(t *testing.T) {
	ctx := context.Background()
	headers := map[string]string{
		"specversion": "2.0",
		"id":          eventtest.ID,
		"type":        eventtest.Type,
		"source":      eventtest.Source,
	}
	m := message.NewHeaderMessage(headers, "", nil)
	require.Equal(t, message.EncodingBinary, m.Encoding())

	_, err := message.ToEvent(ctx, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrUnknownSpecVersion)
}

func TestHeaderMessageStructuredFold(t *testing.T) {
	ctx := context.Background()
	in := eventtest.V1WithJSONDataWithExt()
	payload, err := format.JSON.Marshal(in)
	require.NoError(t, err)

	m := message.NewHeaderMessage(nil, format.JSONMediaType, payload)
	require.Equal(t, message.EncodingStructured, m.Encoding())

	got, err := message.ToEvent(ctx, m)
	require.NoError(t, err)
	assert.True(t, got.Equal(in), "got:  %s\nwant: %s", got, in)
}

func TestHeaderMessageStructuredCSVFold(t *testing.T) {
	ctx := context.Background()
	in := eventtest.V1WithJSONData()
	payload, err := messagetest.CSVFormat.Marshal(in)
	require.NoError(t, err)

	m := message.NewHeaderMessage(nil, messagetest.CSVMediaType, payload)
	require.Equal(t, message.EncodingStructured, m.Encoding())

	got, err := message.ToEvent(ctx, m)
	require.NoError(t, err)
	assert.True(t, got.Equal(in), "got:  %s\nwant: %s", got, in)
}

func TestHeaderMessageUnregisteredFormat(t *testing.T) {
	ctx := context.Background()
	m := message.NewHeaderMessage(nil, format.Prefix+"+avro", []byte("x"))
	require.Equal(t, message.EncodingStructured, m.Encoding())

	_, err := message.ToEvent(ctx, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestHeaderMessageWrongModeReads(t *testing.T) {
	ctx := context.Background()

	binary := message.NewHeaderMessage(map[string]string{"specversion": "1.0"}, "", nil)
	assert.ErrorIs(t, binary.ReadStructured(ctx, new(messagetest.MockStructuredMessage)), message.ErrNotStructured)

	structured := message.NewHeaderMessage(nil, format.JSONMediaType, nil)
	assert.ErrorIs(t, structured.ReadBinary(ctx, new(messagetest.MockBinaryMessage)), message.ErrNotBinary)

	unknown := message.NewHeaderMessage(nil, "text/plain", []byte("hi"))
	assert.ErrorIs(t, unknown.ReadBinary(ctx, new(messagetest.MockBinaryMessage)), message.ErrNotBinary)
	assert.ErrorIs(t, unknown.ReadStructured(ctx, new(messagetest.MockStructuredMessage)), message.ErrNotStructured)
	_, err := message.ToEvent(ctx, unknown)
	assert.ErrorIs(t, err, message.ErrUnknownEncoding)
}
