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

package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextFallsBack(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	// Must be safe to use.
	logger.Info("noop")
}

func TestWithLoggerRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello")

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, zap.String("component", "receiver"))
	FromContext(ctx).Info("hello")

	entries := logs.All()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "receiver", entries[0].ContextMap()["component"])
}
