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
	"github.com/eventmesh-labs/envelope/pkg/message"
	"github.com/eventmesh-labs/envelope/pkg/message/messagetest"
)

func TestToEventNilMessage(t *testing.T) {
	_, err := message.ToEvent(context.Background(), nil)
	assert.ErrorIs(t, err, message.ErrUnknownEncoding)
}

func TestToEventUnrecognizedSpecVersion(t *testing.T) {
	ctx := context.Background()
	m := new(messagetest.MockBinaryMessage)
	require.NoError(t, m.SetAttribute(event.AttrSpecVersion, "2.0"))
	require.NoError(t, m.SetAttribute(event.AttrID, eventtest.ID))
	require.NoError(t, m.SetAttribute(event.AttrType, eventtest.Type))
	require.NoError(t, m.SetAttribute(event.AttrSource, eventtest.Source))

	_, err := message.ToEvent(ctx, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrUnknownSpecVersion)
	assert.Contains(t, err.Error(), "2.0")
}

func TestToEventMissingSpecVersion(t *testing.T) {
	ctx := context.Background()
	m := new(messagetest.MockBinaryMessage)
	require.NoError(t, m.SetAttribute(event.AttrID, eventtest.ID))
	require.NoError(t, m.SetAttribute(event.AttrType, eventtest.Type))
	require.NoError(t, m.SetAttribute(event.AttrSource, eventtest.Source))

	_, err := message.ToEvent(ctx, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrUnknownSpecVersion)
	assert.Contains(t, err.Error(), "no specversion")
}

func TestToEventUndecodableAttribute(t *testing.T) {
	ctx := context.Background()
	m := new(messagetest.MockBinaryMessage)
	require.NoError(t, m.SetAttribute(event.AttrSpecVersion, event.SpecVersionV1))
	require.NoError(t, m.SetAttribute(event.AttrID, eventtest.ID))
	require.NoError(t, m.SetAttribute(event.AttrType, eventtest.Type))
	require.NoError(t, m.SetAttribute(event.AttrSource, eventtest.Source))
	require.NoError(t, m.SetAttribute(event.AttrTime, "yesterday"))

	_, err := message.ToEvent(ctx, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time")
}

func TestToEventValidationFailure(t *testing.T) {
	ctx := context.Background()
	m := new(messagetest.MockBinaryMessage)
	require.NoError(t, m.SetAttribute(event.AttrSpecVersion, event.SpecVersionV1))

	_, err := message.ToEvent(ctx, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id:")
}

type startOnlyMessage struct{}

func (startOnlyMessage) Encoding() message.Encoding {
	return message.EncodingBinary
}

func (startOnlyMessage) ReadBinary(ctx context.Context, w message.BinaryWriter) error {
	return w.Start(ctx)
}

func (startOnlyMessage) ReadStructured(ctx context.Context, w message.StructuredWriter) error {
	return message.ErrNotStructured
}

func TestToEventBinaryVisitWithoutEnd(t *testing.T) {
	_, err := message.ToEvent(context.Background(), startOnlyMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without producing an event")
}

type silentStructuredMessage struct{}

func (silentStructuredMessage) Encoding() message.Encoding {
	return message.EncodingStructured
}

func (silentStructuredMessage) ReadBinary(ctx context.Context, w message.BinaryWriter) error {
	return message.ErrNotBinary
}

func (silentStructuredMessage) ReadStructured(ctx context.Context, w message.StructuredWriter) error {
	return nil
}

func TestToEventStructuredVisitWithoutDelivery(t *testing.T) {
	_, err := message.ToEvent(context.Background(), silentStructuredMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivered no event")
}
