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

package http

import (
	"context"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// WriteResponse renders a message onto a response writer in its own
// encoding, then writes the status code and body. Headers must not have
// been flushed yet.
func WriteResponse(ctx context.Context, m message.Message, rw nethttp.ResponseWriter, status int) error {
	w := &responseWriter{rw: rw, status: status}
	var err error
	switch m.Encoding() {
	case message.EncodingBinary:
		err = m.ReadBinary(ctx, w)
	case message.EncodingStructured:
		err = m.ReadStructured(ctx, w)
	default:
		return message.ErrUnknownEncoding
	}
	if err != nil {
		return err
	}
	return w.flush()
}

type responseWriter struct {
	rw     nethttp.ResponseWriter
	status int
	body   []byte
}

var (
	_ message.BinaryWriter     = (*responseWriter)(nil)
	_ message.StructuredWriter = (*responseWriter)(nil)
)

func (w *responseWriter) Start(ctx context.Context) error {
	return nil
}

func (w *responseWriter) SetAttribute(name string, value interface{}) error {
	if name == event.AttrDataContentType {
		w.rw.Header().Set(contentTypeHeader, message.AttributeString(value))
		return nil
	}
	w.rw.Header().Set(AttributePrefix+name, message.AttributeString(value))
	return nil
}

func (w *responseWriter) SetExtensionString(name string, value string) error {
	w.rw.Header().Set(AttributePrefix+name, value)
	return nil
}

func (w *responseWriter) SetExtensionNumber(name string, value float64) error {
	w.rw.Header().Set(AttributePrefix+name, event.NumberValue(value).Emit())
	return nil
}

func (w *responseWriter) SetExtensionBool(name string, value bool) error {
	w.rw.Header().Set(AttributePrefix+name, event.BoolValue(value).Emit())
	return nil
}

func (w *responseWriter) SetData(data []byte) error {
	w.body = append([]byte(nil), data...)
	return nil
}

func (w *responseWriter) End(ctx context.Context) error {
	return nil
}

func (w *responseWriter) SetStructuredEvent(ctx context.Context, f format.Format, data []byte) error {
	w.rw.Header().Set(contentTypeHeader, f.MediaType())
	w.body = append([]byte(nil), data...)
	return nil
}

func (w *responseWriter) flush() error {
	w.rw.WriteHeader(w.status)
	if len(w.body) == 0 {
		return nil
	}
	_, err := w.rw.Write(w.body)
	return err
}

// NewMessageFromResponse classifies a received response as a wire message,
// consuming its body.
func NewMessageFromResponse(resp *nethttp.Response) (*message.HeaderMessage, error) {
	var body []byte
	if resp.Body != nil {
		var err error
		if body, err = io.ReadAll(resp.Body); err != nil {
			return nil, errors.Wrap(err, "failed to read response body")
		}
	}
	headers := make(map[string]string)
	for name, values := range resp.Header {
		if len(values) == 0 {
			continue
		}
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, AttributePrefix) {
			headers[lower[len(AttributePrefix):]] = values[0]
		}
	}
	return message.NewHeaderMessage(headers, resp.Header.Get(contentTypeHeader), body), nil
}
