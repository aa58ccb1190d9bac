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

// Package types holds the wire-typed values context attributes are declared
// with: RFC 3339 timestamps and URI references. Parsing is strict; a string
// that does not parse is an error, never a silently dropped value.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp wraps time.Time so attribute values marshal to and from the
// RFC 3339 form the wire formats use. The zone offset of the parsed string
// is preserved, not normalized to UTC.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses an RFC 3339 string. Empty input is an error; callers
// that allow absence check for "" before calling.
func ParseTimestamp(t string) (*Timestamp, error) {
	if t == "" {
		return nil, fmt.Errorf("timestamp is empty")
	}
	timestamp, err := time.Parse(time.RFC3339Nano, t)
	if err != nil {
		return nil, fmt.Errorf("invalid RFC 3339 timestamp %q: %w", t, err)
	}
	return &Timestamp{Time: timestamp}, nil
}

// MarshalJSON renders the RFC 3339 form; the zero value renders as "".
func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", t.Format(time.RFC3339Nano))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}
	if timestamp == "" {
		*t = Timestamp{}
		return nil
	}
	pt, err := ParseTimestamp(timestamp)
	if err != nil {
		return err
	}
	*t = *pt
	return nil
}

func (t *Timestamp) String() string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
