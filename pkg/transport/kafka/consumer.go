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

package kafka

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/logging"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// Consumer reads event messages from one topic as part of a consumer group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic string, groupID string) *Consumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: false,
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  1 * time.Second,
		Dialer:   dialer,
	})
	return &Consumer{reader: r}
}

// Receive fetches and decodes the next event. The record is returned
// alongside so the caller can commit it.
func (c *Consumer) Receive(ctx context.Context) (*event.Event, kafka.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, kafka.Message{}, err
	}
	e, err := message.ToEvent(ctx, NewMessage(msg))
	if err != nil {
		return nil, msg, err
	}
	return e, msg, nil
}

// Run fetches, decodes and dispatches events until the context ends. Records
// that do not decode into a valid event are logged and committed so the
// group does not loop on them; handler errors stop the loop uncommitted.
func (c *Consumer) Run(ctx context.Context, fn func(context.Context, *event.Event) error) error {
	logger := logging.FromContext(ctx)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to fetch message")
		}
		e, err := message.ToEvent(ctx, NewMessage(msg))
		if err != nil {
			logger.Warn("Dropping undecodable record",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return errors.Wrap(err, "failed to commit record")
			}
			continue
		}
		if err := fn(ctx, e); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, "failed to commit record")
		}
	}
}

func (c *Consumer) Commit(ctx context.Context, msgs ...kafka.Message) error {
	return c.reader.CommitMessages(ctx, msgs...)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
