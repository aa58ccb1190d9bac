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

package event

import (
	"errors"
	"strings"

	"go.uber.org/multierr"

	"github.com/eventmesh-labs/envelope/pkg/types"
)

// ContextV1 holds the context attributes of a CloudEvents v1.0 event. It is
// the v0.3 record with the schemaurl attribute renamed to dataschema.
type ContextV1 struct {
	// SpecVersion - the version of the CloudEvents specification the event uses.
	SpecVersion string `json:"specversion"`
	// Type - the type of the occurrence which has happened.
	Type string `json:"type"`
	// Source - a URI-reference describing the event producer.
	Source types.URIRef `json:"source"`
	// Subject - the subject of the event in the context of the producer.
	Subject *string `json:"subject,omitempty"`
	// ID of the event; must be non-empty and unique within the scope of the producer.
	ID string `json:"id"`
	// Time - a timestamp of when the occurrence happened.
	Time *types.Timestamp `json:"time,omitempty"`
	// DataSchema - a link to the schema that the data attribute adheres to.
	DataSchema *types.URIRef `json:"dataschema,omitempty"`
	// DataContentType - a MIME (RFC 2046) string describing the media type of data.
	DataContentType *string `json:"datacontenttype,omitempty"`
}

func (ec *ContextV1) Version() Version { return V1 }

func (ec *ContextV1) GetSpecVersion() string { return SpecVersionV1 }

func (ec *ContextV1) GetID() string { return ec.ID }

func (ec *ContextV1) GetType() string { return ec.Type }

func (ec *ContextV1) GetSource() string { return ec.Source.String() }

func (ec *ContextV1) GetSubject() string {
	if ec.Subject != nil {
		return *ec.Subject
	}
	return ""
}

func (ec *ContextV1) GetTime() *types.Timestamp { return ec.Time }

func (ec *ContextV1) GetDataContentType() string {
	if ec.DataContentType != nil {
		return *ec.DataContentType
	}
	return ""
}

func (ec *ContextV1) GetDataSchema() string {
	if ec.DataSchema != nil {
		return ec.DataSchema.String()
	}
	return ""
}

// AsV03 converts to version 0.3, renaming dataschema to schemaurl.
func (ec *ContextV1) AsV03() *ContextV03 {
	return &ContextV03{
		SpecVersion:     SpecVersionV03,
		Type:            ec.Type,
		Source:          ec.Source,
		Subject:         ec.Subject,
		ID:              ec.ID,
		Time:            ec.Time,
		SchemaURL:       ec.DataSchema,
		DataContentType: ec.DataContentType,
	}
}

// AsV1 returns the receiver's values at version 1.0; the conversion is
// idempotent.
func (ec *ContextV1) AsV1() *ContextV1 {
	out := *ec
	out.SpecVersion = SpecVersionV1
	return &out
}

func (ec *ContextV1) Clone() Context {
	out := *ec
	return &out
}

// Validate returns errors based on requirements from the CloudEvents spec,
// one per broken constraint.
func (ec *ContextV1) Validate() error {
	var errs error

	if ec.SpecVersion != SpecVersionV1 {
		errs = multierr.Append(errs, errors.New("specversion: needs to be 1.0"))
	}

	if strings.TrimSpace(ec.ID) == "" {
		errs = multierr.Append(errs, errors.New("id: MUST be a non-empty string"))
	}

	if strings.TrimSpace(ec.Type) == "" {
		errs = multierr.Append(errs, errors.New("type: MUST be a non-empty string"))
	}

	if strings.TrimSpace(ec.Source.String()) == "" {
		errs = multierr.Append(errs, errors.New("source: REQUIRED"))
	}

	if ec.Subject != nil && strings.TrimSpace(*ec.Subject) == "" {
		errs = multierr.Append(errs, errors.New("subject: if present, MUST be a non-empty string"))
	}

	if ec.DataSchema != nil && strings.TrimSpace(ec.DataSchema.String()) == "" {
		errs = multierr.Append(errs, errors.New("dataschema: if present, MUST adhere to the format specified in RFC 3986"))
	}

	if ec.DataContentType != nil && strings.TrimSpace(*ec.DataContentType) == "" {
		errs = multierr.Append(errs, errors.New("datacontenttype: if present, MUST adhere to the format specified in RFC 2046"))
	}

	return errs
}
