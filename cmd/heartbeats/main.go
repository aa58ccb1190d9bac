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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	"github.com/eventmesh-labs/envelope/pkg/event"
	cehttp "github.com/eventmesh-labs/envelope/pkg/transport/http"
)

type Heartbeat struct {
	Sequence int    `json:"id"`
	Label    string `json:"label"`
	Msg      string `json:"msg,omitempty"`
}

var (
	eventSource string
	eventType   string
	sink        string
	label       string
	periodStr   string
	msg         string
)

func init() {
	flag.StringVar(&eventSource, "eventSource", "", "the event source, defaults to a hostname-based URL")
	flag.StringVar(&eventType, "eventType", "dev.envelope.samples.heartbeat", "the event type")
	flag.StringVar(&sink, "sink", "", "the host url to heartbeat to")
	flag.StringVar(&label, "label", "", "a special label")
	flag.StringVar(&periodStr, "period", "5s", "the duration between heartbeats. Supported formats: Go (https://pkg.go.dev/time#ParseDuration), integers (interpreted as seconds)")
	flag.StringVar(&msg, "msg", "", "message content in data.msg")
}

type envConfig struct {
	// Sink URL where to send heartbeat events.
	Sink string `envconfig:"K_SINK"`

	// Whether to run continuously or exit after one heartbeat.
	OneShot bool `envconfig:"ONE_SHOT" default:"false"`
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		log.Printf("[ERROR] Failed to process env var: %s", err)
		os.Exit(1)
	}

	if env.Sink != "" {
		sink = env.Sink
	}
	if sink == "" {
		log.Printf("[ERROR] No sink given, set --sink or K_SINK")
		os.Exit(1)
	}

	// default to 5s if unset, try to parse as a duration, then as an int
	var period time.Duration
	if periodStr == "" {
		period = 5 * time.Second
	} else if p, err := time.ParseDuration(periodStr); err == nil {
		period = p
	} else if p, err := strconv.Atoi(periodStr); err == nil {
		period = time.Duration(p) * time.Second
	} else {
		log.Fatalf("Invalid period interval provided: %q", periodStr)
	}

	if eventSource == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "localhost"
		}
		eventSource = fmt.Sprintf("https://github.com/eventmesh-labs/envelope/cmd/heartbeats/#%s", host)
		log.Printf("Heartbeats Source: %s", eventSource)
	}

	if len(label) > 0 && label[0] == '"' {
		label, _ = strconv.Unquote(label)
	}

	sender := cehttp.NewSender(sink)
	hb := &Heartbeat{
		Sequence: 0,
		Label:    label,
		Msg:      msg,
	}
	ticker := time.NewTicker(period)
	for {
		hb.Sequence++

		payload, err := json.Marshal(hb)
		if err != nil {
			log.Printf("failed to marshal heartbeat: %s", err.Error())
			continue
		}

		e, err := event.NewV1().
			WithID(uuid.New().String()).
			WithType(eventType).
			WithSource(eventSource).
			WithTime(time.Now()).
			WithData("application/json", payload).
			WithExtension("the", 42).
			WithExtension("heart", "yes").
			WithExtension("beats", true).
			Build()
		if err != nil {
			log.Printf("failed to build event: %s", err.Error())
			continue
		}

		log.Printf("sending event to %s", sink)
		resp, err := sender.SendEvent(ctx, e)
		if err != nil {
			log.Printf("failed to send event: %v", err)
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 300 {
				log.Printf("event was not accepted: %s", resp.Status)
			}
		}

		if env.OneShot {
			return
		}

		// Wait for next tick
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
