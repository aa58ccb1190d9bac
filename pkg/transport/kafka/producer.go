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

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/message"
)

// Config locates the topic a producer writes to.
type Config struct {
	Brokers []string
	Topic   string
}

// Producer publishes event messages to one topic, keyed for partition
// affinity.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg Config) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: w}
}

// Send publishes one message in its own encoding.
func (p *Producer) Send(ctx context.Context, key []byte, m message.Message) error {
	msg := kafka.Message{Key: key}
	if err := WriteProducerMessage(ctx, m, &msg); err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, "failed to write message")
	}
	return nil
}

// SendEvent publishes an event in binary mode.
func (p *Producer) SendEvent(ctx context.Context, key []byte, e *event.Event) error {
	return p.Send(ctx, key, message.NewBinaryMessage(e))
}

func (p *Producer) Topic() string {
	return p.writer.Topic
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
