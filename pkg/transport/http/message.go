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

// Package http binds events to HTTP requests: binary mode as ce- prefixed
// headers beside the payload, structured mode as a single event-format body.
package http

import (
	"bytes"
	"context"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// AttributePrefix marks event attributes and extensions in HTTP headers.
const AttributePrefix = "ce-"

const contentTypeHeader = "Content-Type"

// NewMessageFromRequest classifies an incoming request as a wire message.
// ce- prefixed headers are stripped and lower-cased; the body is read in
// full, so the request body is consumed.
func NewMessageFromRequest(req *nethttp.Request) (*message.HeaderMessage, error) {
	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return nil, errors.Wrap(err, "failed to read request body")
		}
	}
	headers := make(map[string]string)
	for name, values := range req.Header {
		if len(values) == 0 {
			continue
		}
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, AttributePrefix) {
			headers[lower[len(AttributePrefix):]] = values[0]
		}
	}
	return message.NewHeaderMessage(headers, req.Header.Get(contentTypeHeader), body), nil
}

// WriteRequest renders a message onto an outgoing request in its own
// encoding: binary as headers plus payload body, structured as the format
// body. Unknown messages fail.
func WriteRequest(ctx context.Context, m message.Message, req *nethttp.Request) error {
	w := &requestWriter{req: req}
	switch m.Encoding() {
	case message.EncodingBinary:
		return m.ReadBinary(ctx, w)
	case message.EncodingStructured:
		return m.ReadStructured(ctx, w)
	}
	return message.ErrUnknownEncoding
}

type requestWriter struct {
	req *nethttp.Request
}

var (
	_ message.BinaryWriter     = (*requestWriter)(nil)
	_ message.StructuredWriter = (*requestWriter)(nil)
)

func (w *requestWriter) Start(ctx context.Context) error {
	if w.req.Header == nil {
		w.req.Header = nethttp.Header{}
	}
	return nil
}

func (w *requestWriter) SetAttribute(name string, value interface{}) error {
	// datacontenttype rides on the transport's own content type header.
	if name == event.AttrDataContentType {
		w.req.Header.Set(contentTypeHeader, message.AttributeString(value))
		return nil
	}
	w.req.Header.Set(AttributePrefix+name, message.AttributeString(value))
	return nil
}

func (w *requestWriter) SetExtensionString(name string, value string) error {
	w.req.Header.Set(AttributePrefix+name, value)
	return nil
}

func (w *requestWriter) SetExtensionNumber(name string, value float64) error {
	w.req.Header.Set(AttributePrefix+name, event.NumberValue(value).Emit())
	return nil
}

func (w *requestWriter) SetExtensionBool(name string, value bool) error {
	w.req.Header.Set(AttributePrefix+name, event.BoolValue(value).Emit())
	return nil
}

func (w *requestWriter) SetData(data []byte) error {
	w.setBody(data)
	return nil
}

func (w *requestWriter) End(ctx context.Context) error {
	return nil
}

func (w *requestWriter) SetStructuredEvent(ctx context.Context, f format.Format, data []byte) error {
	if w.req.Header == nil {
		w.req.Header = nethttp.Header{}
	}
	w.req.Header.Set(contentTypeHeader, f.MediaType())
	w.setBody(data)
	return nil
}

func (w *requestWriter) setBody(data []byte) {
	body := append([]byte(nil), data...)
	w.req.Body = io.NopCloser(bytes.NewReader(body))
	w.req.ContentLength = int64(len(body))
	w.req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}
