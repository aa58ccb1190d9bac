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

// Package kafka binds events to Kafka records: binary mode as ce_ prefixed
// record headers beside the value, structured mode as a single event-format
// value.
package kafka

import (
	"context"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// AttributePrefix marks event attributes and extensions in record headers.
const AttributePrefix = "ce_"

const contentTypeHeader = "content-type"

// NewMessage classifies a consumed record as a wire message. ce_ prefixed
// header keys are stripped and lower-cased.
func NewMessage(msg kafka.Message) *message.HeaderMessage {
	headers := make(map[string]string)
	var contentType string
	for _, h := range msg.Headers {
		key := strings.ToLower(h.Key)
		if key == contentTypeHeader {
			contentType = string(h.Value)
			continue
		}
		if strings.HasPrefix(key, AttributePrefix) {
			headers[key[len(AttributePrefix):]] = string(h.Value)
		}
	}
	return message.NewHeaderMessage(headers, contentType, msg.Value)
}

// WriteProducerMessage renders a message onto an outgoing record in its own
// encoding. Unknown messages fail.
func WriteProducerMessage(ctx context.Context, m message.Message, msg *kafka.Message) error {
	w := &recordWriter{msg: msg}
	switch m.Encoding() {
	case message.EncodingBinary:
		return m.ReadBinary(ctx, w)
	case message.EncodingStructured:
		return m.ReadStructured(ctx, w)
	}
	return message.ErrUnknownEncoding
}

type recordWriter struct {
	msg *kafka.Message
}

var (
	_ message.BinaryWriter     = (*recordWriter)(nil)
	_ message.StructuredWriter = (*recordWriter)(nil)
)

func (w *recordWriter) Start(ctx context.Context) error {
	return nil
}

func (w *recordWriter) SetAttribute(name string, value interface{}) error {
	if name == event.AttrDataContentType {
		w.setHeader(contentTypeHeader, message.AttributeString(value))
		return nil
	}
	w.setHeader(AttributePrefix+name, message.AttributeString(value))
	return nil
}

func (w *recordWriter) SetExtensionString(name string, value string) error {
	w.setHeader(AttributePrefix+name, value)
	return nil
}

func (w *recordWriter) SetExtensionNumber(name string, value float64) error {
	w.setHeader(AttributePrefix+name, event.NumberValue(value).Emit())
	return nil
}

func (w *recordWriter) SetExtensionBool(name string, value bool) error {
	w.setHeader(AttributePrefix+name, event.BoolValue(value).Emit())
	return nil
}

func (w *recordWriter) SetData(data []byte) error {
	w.msg.Value = append([]byte(nil), data...)
	return nil
}

func (w *recordWriter) End(ctx context.Context) error {
	return nil
}

func (w *recordWriter) SetStructuredEvent(ctx context.Context, f format.Format, data []byte) error {
	w.setHeader(contentTypeHeader, f.MediaType())
	w.msg.Value = append([]byte(nil), data...)
	return nil
}

func (w *recordWriter) setHeader(key, value string) {
	for i := range w.msg.Headers {
		if w.msg.Headers[i].Key == key {
			w.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	w.msg.Headers = append(w.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}
