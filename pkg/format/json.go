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

package format

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/eventmesh-labs/envelope/pkg/event"
)

// JSONMediaType identifies the CloudEvents JSON event format.
const JSONMediaType = Prefix + "+json"

// JSON is the built-in "application/cloudevents+json" format. Attributes and
// extensions sit at the top level of the object; the payload is carried in
// the data member for JSON and printable content, in data_base64 otherwise.
var JSON Format = jsonFmt{}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonFmt struct{}

func (jsonFmt) MediaType() string { return JSONMediaType }

func (jsonFmt) Marshal(e *event.Event) ([]byte, error) {
	out := make(map[string]interface{}, 16)

	// Extensions go in first so a misnamed extension can never shadow a
	// context attribute.
	for _, name := range e.ExtensionNames() {
		v, _ := e.Extension(name)
		out[name] = v.Interface()
	}

	out[event.AttrSpecVersion] = e.SpecVersion()
	out[event.AttrID] = e.ID()
	out[event.AttrType] = e.Type()
	out[event.AttrSource] = e.Source()
	if s := e.Subject(); s != "" {
		out[event.AttrSubject] = s
	}
	if t := e.Time(); t != nil {
		out[event.AttrTime] = t.String()
	}
	if s := e.DataSchema(); s != "" {
		out[e.Version().SchemaAttribute()] = s
	}
	if ct := e.DataContentType(); ct != "" {
		out[event.AttrDataContentType] = ct
	}

	if e.HasData() {
		data := e.Data()
		ct := e.DataContentType()
		switch {
		case isJSONContentType(ct):
			if !json.Valid(data) {
				return nil, fmt.Errorf("event data is not valid JSON but datacontenttype is %q", ct)
			}
			out["data"] = json.RawMessage(data)
		case isPrintable(data):
			out["data"] = string(data)
		default:
			out["data_base64"] = base64.StdEncoding.EncodeToString(data)
		}
	}

	return jsonAPI.Marshal(out)
}

func (jsonFmt) Unmarshal(b []byte) (*event.Event, error) {
	var raw map[string]json.RawMessage
	if err := jsonAPI.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	specVersion, err := rawString(raw, event.AttrSpecVersion)
	if err != nil {
		return nil, err
	}
	if specVersion == "" {
		return nil, fmt.Errorf("%w: event carries no specversion attribute", event.ErrUnknownSpecVersion)
	}
	version, err := event.ParseVersion(specVersion)
	if err != nil {
		return nil, err
	}
	builder := event.NewBuilder(version)
	attributeNames := version.AttributeNames()

	for name := range attributeNames {
		if name == event.AttrSpecVersion {
			continue
		}
		value, ok := raw[name]
		if !ok {
			continue
		}
		var s string
		if err := jsonAPI.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("attribute %q must be a JSON string: %w", name, err)
		}
		if err := builder.SetAttribute(name, s); err != nil {
			return nil, err
		}
	}

	data, hasData := raw["data"]
	dataBase64, hasDataBase64 := raw["data_base64"]
	if hasData && hasDataBase64 {
		return nil, fmt.Errorf("event carries both data and data_base64")
	}

	contentType := ""
	if ct, ok := raw[event.AttrDataContentType]; ok {
		// Already decoded above; re-decode cheaply for the data policy.
		if err := jsonAPI.Unmarshal(ct, &contentType); err != nil {
			return nil, err
		}
	}

	switch {
	case hasDataBase64:
		var enc string
		if err := jsonAPI.Unmarshal(dataBase64, &enc); err != nil {
			return nil, fmt.Errorf("data_base64 must be a JSON string: %w", err)
		}
		payload, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return nil, fmt.Errorf("invalid data_base64: %w", err)
		}
		builder.WithData("", payload)
	case hasData:
		if isJSONContentType(contentType) {
			builder.WithData("", []byte(data))
		} else {
			var s string
			if err := jsonAPI.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("data must be a JSON string when datacontenttype is %q: %w", contentType, err)
			}
			builder.WithData("", []byte(s))
		}
	}

	for name, value := range raw {
		if _, isAttribute := attributeNames[name]; isAttribute {
			continue
		}
		if name == "data" || name == "data_base64" {
			continue
		}
		var v interface{}
		if err := jsonAPI.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("extension %q: %w", name, err)
		}
		switch v.(type) {
		case string, float64, bool:
			builder.WithExtension(name, v)
		default:
			return nil, fmt.Errorf("extension %q: %w, got a JSON %s",
				name, event.ErrUnsupportedExtensionType, jsonValueKind(value))
		}
	}

	return builder.Build()
}

func rawString(raw map[string]json.RawMessage, name string) (string, error) {
	value, ok := raw[name]
	if !ok {
		return "", nil
	}
	var s string
	if err := jsonAPI.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("attribute %q must be a JSON string: %w", name, err)
	}
	return s, nil
}

func jsonValueKind(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		return "object"
	case strings.HasPrefix(trimmed, "["):
		return "array"
	case trimmed == "null":
		return "null"
	}
	return "value"
}

// isJSONContentType reports whether a datacontenttype carries JSON. An
// absent content type defaults to JSON, per the JSON event format rules.
func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	if i := strings.IndexRune(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == "application/json" || ct == "text/json" || strings.HasSuffix(ct, "+json")
}

// isPrintable reports whether data can ride in a JSON string unchanged:
// valid UTF-8 with no control bytes outside tab, LF and CR.
func isPrintable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, b := range data {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return false
		}
		if b == 0x7f {
			return false
		}
	}
	return true
}
