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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/event/eventtest"
	"github.com/eventmesh-labs/envelope/pkg/format"
	cehttp "github.com/eventmesh-labs/envelope/pkg/transport/http"
)

func newCaptureServer(t *testing.T) (*httptest.Server, chan *event.Event) {
	t.Helper()
	received := make(chan *event.Event, 1)
	srv := httptest.NewServer(cehttp.NewEventHandler(func(ctx context.Context, e *event.Event) {
		received <- e
	}))
	t.Cleanup(srv.Close)
	return srv, received
}

func TestBinaryThroughServer(t *testing.T) {
	ctx := context.Background()
	srv, received := newCaptureServer(t)
	sender := cehttp.NewSender(srv.URL)

	for _, in := range eventtest.AllEvents() {
		in := in
		t.Run(eventtest.Name(in), func(t *testing.T) {
			resp, err := sender.SendEvent(ctx, in)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, nethttp.StatusAccepted, resp.StatusCode)

			got := <-received
			// Headers carry text, so typed extensions arrive as strings.
			want := eventtest.WithStringExtensions(in)
			assert.True(t, got.Equal(want), "got:  %s\nwant: %s", got, want)
		})
	}
}

func TestStructuredThroughServer(t *testing.T) {
	ctx := context.Background()
	srv, received := newCaptureServer(t)
	sender := cehttp.NewSender(srv.URL)

	for _, in := range eventtest.AllEvents() {
		in := in
		t.Run(eventtest.Name(in), func(t *testing.T) {
			resp, err := sender.SendEventStructured(ctx, in, format.JSON)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, nethttp.StatusAccepted, resp.StatusCode)

			got := <-received
			assert.True(t, got.Equal(in), "got:  %s\nwant: %s", got, in)
		})
	}
}

func TestBinaryDegradesExtensionsToStrings(t *testing.T) {
	ctx := context.Background()
	srv, received := newCaptureServer(t)
	sender := cehttp.NewSender(srv.URL)

	resp, err := sender.SendEvent(ctx, eventtest.V1WithJSONDataWithExt())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusAccepted, resp.StatusCode)

	got := <-received
	wantValues := map[string]string{
		"astring":  "aaa",
		"aboolean": "true",
		"anumber":  "10",
	}
	for name, want := range wantValues {
		v, ok := got.Extension(name)
		require.True(t, ok, "extension %q missing", name)
		assert.Equal(t, event.ExtensionString, v.Kind(), "extension %q kind", name)
		assert.Equal(t, want, v.AsString(), "extension %q value", name)
	}
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	srv, _ := newCaptureServer(t)

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := nethttp.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, nethttp.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("plain payload", func(t *testing.T) {
		resp, err := nethttp.Post(srv.URL, "application/json", strings.NewReader("{}"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unrecognized specversion", func(t *testing.T) {
		req, err := nethttp.NewRequest(nethttp.MethodPost, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("ce-specversion", "2.0")
		req.Header.Set("ce-id", eventtest.ID)
		req.Header.Set("ce-type", eventtest.Type)
		req.Header.Set("ce-source", eventtest.Source)

		resp, err := nethttp.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing required attributes", func(t *testing.T) {
		req, err := nethttp.NewRequest(nethttp.MethodPost, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("ce-specversion", "1.0")

		resp, err := nethttp.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})
}

func TestReceiverShutsDownWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = cehttp.WithShutdownTimeout(ctx, time.Second)

	recv := cehttp.NewReceiver(0)
	errCh := make(chan error, 1)
	go func() {
		errCh <- recv.StartListen(ctx, cehttp.NewEventHandler(func(context.Context, *event.Event) {}))
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("receiver did not shut down")
	}
}
