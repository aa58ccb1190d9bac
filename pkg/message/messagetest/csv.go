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

package messagetest

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"

	"github.com/eventmesh-labs/envelope/pkg/event"
	"github.com/eventmesh-labs/envelope/pkg/format"
	"github.com/eventmesh-labs/envelope/pkg/types"
)

// CSVMediaType identifies the toy CSV event format.
const CSVMediaType = format.Prefix + "+csv"

// CSVFormat renders an event as one CSV record: specversion, id, type,
// source, subject, time, schema, datacontenttype, base64 data. It is
// lossless for attributes and data but refuses extensions, which makes it
// a handy second structured codec for tests.
var CSVFormat format.Format = csvFormat{}

func init() {
	format.Add(CSVFormat)
}

type csvFormat struct{}

func (csvFormat) MediaType() string {
	return CSVMediaType
}

func (csvFormat) Marshal(e *event.Event) ([]byte, error) {
	if len(e.ExtensionNames()) > 0 {
		return nil, fmt.Errorf("the csv format does not support extensions")
	}
	var timeStr string
	if t := e.Time(); t != nil {
		timeStr = t.String()
	}
	var dataStr string
	if e.HasData() {
		dataStr = base64.StdEncoding.EncodeToString(e.Data())
	}
	record := []string{
		e.SpecVersion(),
		e.ID(),
		e.Type(),
		e.Source(),
		e.Subject(),
		timeStr,
		e.DataSchema(),
		e.DataContentType(),
		dataStr,
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(record); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (csvFormat) Unmarshal(data []byte) (*event.Event, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 9
	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("malformed csv event: %w", err)
	}
	b, err := event.BuilderFor(record[0])
	if err != nil {
		return nil, err
	}
	b.WithID(record[1]).WithType(record[2]).WithSource(record[3])
	if record[4] != "" {
		b.WithSubject(record[4])
	}
	if record[5] != "" {
		ts, err := types.ParseTimestamp(record[5])
		if err != nil {
			return nil, fmt.Errorf("malformed csv time: %w", err)
		}
		b.WithTime(ts.Time)
	}
	if record[6] != "" {
		b.WithDataSchema(record[6])
	}
	if record[7] != "" {
		b.WithDataContentType(record[7])
	}
	if record[8] != "" {
		raw, err := base64.StdEncoding.DecodeString(record[8])
		if err != nil {
			return nil, fmt.Errorf("malformed csv data: %w", err)
		}
		b.WithData("", raw)
	}
	return b.Build()
}
