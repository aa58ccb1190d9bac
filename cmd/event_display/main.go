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
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/logging"
	cehttp "github.com/eventmesh-labs/envelope/pkg/transport/http"
)

/*
Example Output:

☁️  envelope.Event
Validation: valid
Context Attributes,
  specversion: 1.0
  type: dev.envelope.samples.heartbeat
  source: https://github.com/eventmesh-labs/envelope/cmd/heartbeats/#mypod
  id: 2b72d7bf-c38f-4a98-a433-608fbcdd2596
  time: 2019-10-18T15:23:20.809775386Z
  datacontenttype: application/json
Extensions,
  beats: true
  heart: yes
  the: 42
Data,
  {
    "id": 2,
    "label": ""
  }
*/

type envConfig struct {
	// Port to listen on for incoming events.
	Port int `envconfig:"PORT" default:"8080"`
}

// display prints the given Event in a human-readable format.
func display(ctx context.Context, e *event.Event) {
	fmt.Printf("☁️  envelope.Event\n%s", e)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	run(ctx)
}

func run(ctx context.Context) {
	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal("Failed to process env var: ", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer logger.Sync()
	ctx = logging.WithLogger(ctx, logger)

	logger.Info("Listening for events", zap.Int("port", env.Port))
	recv := cehttp.NewReceiver(env.Port)
	if err := recv.StartListen(ctx, healthzMiddleware(cehttp.NewEventHandler(display))); err != nil {
		log.Fatal("Error during receiver's runtime: ", err)
	}
}

// HTTP path of the health endpoint used for probing the service.
const healthzPath = "/healthz"

// healthzMiddleware exposes a health endpoint in front of the event handler.
func healthzMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.RequestURI == healthzPath {
			w.WriteHeader(http.StatusNoContent)
		} else {
			next.ServeHTTP(w, req)
		}
	})
}
