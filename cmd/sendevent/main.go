/*
Copyright 2024 The Envelope Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Implements a simple utility for sending a JSON-encoded sample event.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
	cehttp "github.com/eventmesh-labs/envelope/pkg/transport/http"
)

var (
	eventID    string
	eventType  string
	source     string
	data       string
	structured bool
)

func init() {
	flag.StringVar(&eventID, "event-id", "", "Event ID to use. Defaults to a generated UUID")
	flag.StringVar(&eventType, "event-type", "dev.envelope.samples.demo", "The Event Type to use.")
	flag.StringVar(&source, "source", "", "Source URI to use. Defaults to the current machine's hostname")
	flag.StringVar(&data, "data", `{"hello": "world!"}`, "Event data")
	flag.BoolVar(&structured, "structured", false, "Send in structured mode (one JSON blob) instead of binary mode")
}

func main() {
	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Println("Usage: sendevent [flags] <webhook>\nFor details about valid flags, run sendevent --help")
		os.Exit(1)
	}

	webhook := flag.Arg(0)

	var untyped map[string]interface{}
	if err := json.Unmarshal([]byte(data), &untyped); err != nil {
		fmt.Println("Currently sendevent only supports JSON event data")
		os.Exit(1)
	}

	if eventID == "" {
		eventID = uuid.New().String()
	}
	if source == "" {
		var err error
		if source, err = os.Hostname(); err != nil {
			source = "localhost"
		}
	}

	e, err := event.NewV1().
		WithID(eventID).
		WithType(eventType).
		WithSource(source).
		WithTime(time.Now().UTC()).
		WithData("application/json", []byte(data)).
		Build()
	if err != nil {
		fmt.Printf("Failed to build event: %s\n", err)
		os.Exit(1)
	}

	sender := cehttp.NewSender(webhook)
	var res *http.Response
	if structured {
		res, err = sender.SendEventStructured(context.Background(), e, format.JSON)
	} else {
		res, err = sender.SendEvent(context.Background(), e)
	}
	if err != nil {
		fmt.Printf("Failed to send event to %s: %s\n", webhook, err)
		os.Exit(1)
	}
	defer res.Body.Close()
	fmt.Printf("Got response from %s\n%s\n", webhook, res.Status)
	if res.Header.Get("Content-Length") != "" {
		bytes, _ := io.ReadAll(res.Body)
		fmt.Println(string(bytes))
	}
}
