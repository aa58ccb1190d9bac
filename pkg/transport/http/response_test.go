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

package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/event/eventtest"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/message"
	cehttp "github.com/eventmesh-labs/envelope/pkg/transport/http"
)

func TestWriteResponseBinary(t *testing.T) {
	ctx := context.Background()
	rec := httptest.NewRecorder()
	in := eventtest.V1WithJSONDataWithExt()

	require.NoError(t, cehttp.WriteResponse(ctx, message.NewBinaryMessage(in), rec, nethttp.StatusOK))

	resp := rec.Result()
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.0", resp.Header.Get("ce-specversion"))
	assert.Equal(t, eventtest.DataContentTypeJSON, resp.Header.Get("Content-Type"))
	assert.Equal(t, "{}", rec.Body.String())
}

func TestResponseRoundTrip(t *testing.T) {
	ctx := context.Background()

	testCases := map[string]struct {
		message func(e *event.Event) message.Message
		want    func(e *event.Event) *event.Event
	}{
		"binary degrades extensions": {
			message: func(e *event.Event) message.Message { return message.NewBinaryMessage(e) },
			want:    eventtest.WithStringExtensions,
		},
		"structured preserves kinds": {
			message: func(e *event.Event) message.Message { return message.NewStructuredMessage(e, format.JSON) },
			want:    func(e *event.Event) *event.Event { return e },
		},
	}
	for n, tc := range testCases {
		tc := tc
		t.Run(n, func(t *testing.T) {
			in := eventtest.V1WithJSONDataWithExt()
			rec := httptest.NewRecorder()
			require.NoError(t, cehttp.WriteResponse(ctx, tc.message(in), rec, nethttp.StatusOK))

			resp := rec.Result()
			defer resp.Body.Close()
			m, err := cehttp.NewMessageFromResponse(resp)
			require.NoError(t, err)

			got, err := message.ToEvent(ctx, m)
			require.NoError(t, err)
			want := tc.want(in)
			assert.True(t, got.Equal(want), "got:  %s\nwant: %s", got, want)
		})
	}
}

func TestWriteResponseUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	err := cehttp.WriteResponse(context.Background(), message.UnknownMessage, rec, nethttp.StatusOK)
	assert.ErrorIs(t, err, message.ErrUnknownEncoding)
}
