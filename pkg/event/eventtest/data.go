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

// Package eventtest holds the canonical event corpus the test suites share:
// minimal and fully-attributed events at both spec versions, with JSON, XML
// and plain-text payloads, and with typed and string-degraded extensions.
package eventtest

import (
	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/types"
)

// Attribute values shared by every fixture.
const (
	ID                  = "1"
	Type                = "mock.test"
	Source              = "http://localhost/source"
	DataContentTypeJSON = "application/json"
	DataContentTypeXML  = "application/xml"
	DataContentTypeText = "text/plain"
	DataSchema          = "http://localhost/schema"
	Subject             = "sub"
	Time                = "2018-04-26T14:48:09+02:00"
)

// Payloads shared by every fixture.
var (
	DataJSON = []byte("{}")
	DataXML  = []byte("<stuff></stuff>")
	DataText = []byte("Hello World Lorena!")
)

func must(e *event.Event, err error) *event.Event {
	if err != nil {
		panic(err)
	}
	return e
}

func timestamp() *types.Timestamp {
	ts, err := types.ParseTimestamp(Time)
	if err != nil {
		panic(err)
	}
	return ts
}

// V1Min is a v1.0 event carrying only the required attributes.
func V1Min() *event.Event {
	return must(event.NewV1().
		WithID(ID).
		WithType(Type).
		WithSource(Source).
		Build())
}

// V1WithJSONData is a fully-attributed v1.0 event with a JSON payload.
func V1WithJSONData() *event.Event {
	return must(event.NewV1().
		WithID(ID).
		WithType(Type).
		WithSource(Source).
		WithDataSchema(DataSchema).
		WithData(DataContentTypeJSON, DataJSON).
		WithSubject(Subject).
		WithTime(timestamp().Time).
		Build())
}

// V1WithJSONDataWithExt adds one extension of each supported kind.
func V1WithJSONDataWithExt() *event.Event {
	return must(event.From(V1WithJSONData()).
		WithExtension("astring", "aaa").
		WithExtension("aboolean", true).
		WithExtension("anumber", 10).
		Build())
}

// V1WithJSONDataWithExtString carries the same extensions degraded to
// strings, the shape header transports deliver.
func V1WithJSONDataWithExtString() *event.Event {
	return must(event.From(V1WithJSONData()).
		WithExtension("astring", "aaa").
		WithExtension("aboolean", "true").
		WithExtension("anumber", "10").
		Build())
}

// V1WithXMLData is a v1.0 event with a non-JSON, printable payload.
func V1WithXMLData() *event.Event {
	return must(event.NewV1().
		WithID(ID).
		WithType(Type).
		WithSource(Source).
		WithData(DataContentTypeXML, DataXML).
		WithSubject(Subject).
		WithTime(timestamp().Time).
		Build())
}

// V1WithTextData is a v1.0 event with a plain-text payload.
func V1WithTextData() *event.Event {
	return must(event.NewV1().
		WithID(ID).
		WithType(Type).
		WithSource(Source).
		WithData(DataContentTypeText, DataText).
		WithSubject(Subject).
		WithTime(timestamp().Time).
		Build())
}

func V03Min() *event.Event                 { return V1Min().ToV03() }
func V03WithJSONData() *event.Event        { return V1WithJSONData().ToV03() }
func V03WithJSONDataWithExt() *event.Event { return V1WithJSONDataWithExt().ToV03() }

func V03WithJSONDataWithExtString() *event.Event {
	return V1WithJSONDataWithExtString().ToV03()
}

func V03WithXMLData() *event.Event  { return V1WithXMLData().ToV03() }
func V03WithTextData() *event.Event { return V1WithTextData().ToV03() }

// V1Events returns the v1.0 corpus.
func V1Events() []*event.Event {
	return []*event.Event{
		V1Min(),
		V1WithJSONData(),
		V1WithJSONDataWithExt(),
		V1WithXMLData(),
		V1WithTextData(),
	}
}

// V03Events returns the v0.3 corpus.
func V03Events() []*event.Event {
	return []*event.Event{
		V03Min(),
		V03WithJSONData(),
		V03WithJSONDataWithExt(),
		V03WithXMLData(),
		V03WithTextData(),
	}
}

// AllEvents returns the corpus at both versions.
func AllEvents() []*event.Event {
	return append(V1Events(), V03Events()...)
}

// AllEventsWithoutExtensions filters the corpus down to events formats
// without extension support can round-trip.
func AllEventsWithoutExtensions() []*event.Event {
	var out []*event.Event
	for _, e := range AllEvents() {
		if len(e.ExtensionNames()) == 0 {
			out = append(out, e)
		}
	}
	return out
}

// WithStringExtensions returns the event with every extension degraded to
// its string form, the way header transports deliver them.
func WithStringExtensions(e *event.Event) *event.Event {
	b := event.From(e)
	for _, name := range e.ExtensionNames() {
		v, _ := e.Extension(name)
		b.WithExtension(name, v.Emit())
	}
	return must(b.Build())
}

// Name returns a stable test-case name for a corpus event.
func Name(e *event.Event) string {
	name := "v" + e.SpecVersion() + "_" + e.Type() + "_" + e.ID()
	if e.HasData() {
		name += "_" + e.DataContentType()
	}
	if n := len(e.ExtensionNames()); n > 0 {
		name += "_ext"
	}
	return name
}
