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

	"go.uber.org/zap"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/logging"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// EventHandlerFunc consumes one decoded event.
type EventHandlerFunc func(ctx context.Context, e *event.Event)

// NewEventHandler adapts an event consumer into an HTTP handler. Requests
// that do not decode into a valid event are rejected with 400; nothing is
// silently dropped.
func NewEventHandler(fn EventHandlerFunc) nethttp.Handler {
	return &eventHandler{fn: fn}
}

type eventHandler struct {
	fn EventHandlerFunc
}

func (h *eventHandler) ServeHTTP(w nethttp.ResponseWriter, req *nethttp.Request) {
	ctx := req.Context()
	logger := logging.FromContext(ctx)

	if req.Method != nethttp.MethodPost {
		w.Header().Set("Allow", nethttp.MethodPost)
		w.WriteHeader(nethttp.StatusMethodNotAllowed)
		return
	}

	m, err := NewMessageFromRequest(req)
	if err != nil {
		logger.Warn("Failed to read request", zap.Error(err))
		nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
		return
	}

	e, err := message.ToEvent(ctx, m)
	if err != nil {
		logger.Warn("Failed to decode event", zap.Error(err))
		nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
		return
	}

	h.fn(ctx, e)
	w.WriteHeader(nethttp.StatusAccepted)
}
