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
	nethttp "net/http"

	"github.com/pkg/errors"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// Sender posts messages to a fixed target.
type Sender struct {
	Client *nethttp.Client
	Target string
}

func NewSender(target string) *Sender {
	return &Sender{Client: nethttp.DefaultClient, Target: target}
}

func (s *Sender) NewRequest(ctx context.Context) (*nethttp.Request, error) {
	return nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, s.Target, nil)
}

// Send posts one message in its own encoding. The caller owns the response.
func (s *Sender) Send(ctx context.Context, m message.Message) (*nethttp.Response, error) {
	req, err := s.NewRequest(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if err := WriteRequest(ctx, m, req); err != nil {
		return nil, errors.Wrap(err, "failed to write message to request")
	}
	return s.Client.Do(req)
}

// SendEvent posts an event in binary mode.
func (s *Sender) SendEvent(ctx context.Context, e *event.Event) (*nethttp.Response, error) {
	return s.Send(ctx, message.NewBinaryMessage(e))
}

// SendEventStructured posts an event in structured mode using the format.
func (s *Sender) SendEventStructured(ctx context.Context, e *event.Event, f format.Format) (*nethttp.Response, error) {
	return s.Send(ctx, message.NewStructuredMessage(e, f))
}
