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

// ContextV03 holds the context attributes of a CloudEvents v0.3 event.
// Optional attributes are pointers; nil means absent, which is not the same
// as present-and-empty.
type ContextV03 struct {
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
	// SchemaURL - a link to the schema that the data attribute adheres to.
	SchemaURL *types.URIRef `json:"schemaurl,omitempty"`
	// DataContentType - a MIME (RFC 2046) string describing the media type of data.
	DataContentType *string `json:"datacontenttype,omitempty"`
}

func (ec *ContextV03) Version() Version { return V03 }

func (ec *ContextV03) GetSpecVersion() string { return SpecVersionV03 }

func (ec *ContextV03) GetID() string { return ec.ID }

func (ec *ContextV03) GetType() string { return ec.Type }

func (ec *ContextV03) GetSource() string { return ec.Source.String() }

func (ec *ContextV03) GetSubject() string {
	if ec.Subject != nil {
		return *ec.Subject
	}
	return ""
}

func (ec *ContextV03) GetTime() *types.Timestamp { return ec.Time }

func (ec *ContextV03) GetDataContentType() string {
	if ec.DataContentType != nil {
		return *ec.DataContentType
	}
	return ""
}

func (ec *ContextV03) GetDataSchema() string {
	if ec.SchemaURL != nil {
		return ec.SchemaURL.String()
	}
	return ""
}

// AsV03 returns the receiver's values at version 0.3; the conversion is
// idempotent.
func (ec *ContextV03) AsV03() *ContextV03 {
	out := *ec
	out.SpecVersion = SpecVersionV03
	return &out
}

// AsV1 converts to version 1.0, renaming schemaurl to dataschema.
func (ec *ContextV03) AsV1() *ContextV1 {
	return &ContextV1{
		SpecVersion:     SpecVersionV1,
		Type:            ec.Type,
		Source:          ec.Source,
		Subject:         ec.Subject,
		ID:              ec.ID,
		Time:            ec.Time,
		DataSchema:      ec.SchemaURL,
		DataContentType: ec.DataContentType,
	}
}

func (ec *ContextV03) Clone() Context {
	out := *ec
	return &out
}

// Validate returns errors based on requirements from the CloudEvents spec,
// one per broken constraint.
func (ec *ContextV03) Validate() error {
	var errs error

	// specversion
	// REQUIRED, and this record only carries 0.3.
	if ec.SpecVersion != SpecVersionV03 {
		errs = multierr.Append(errs, errors.New("specversion: needs to be 0.3"))
	}

	// id
	// REQUIRED, MUST be a non-empty string, unique within the scope of the
	// producer. Uniqueness is not testable here.
	if strings.TrimSpace(ec.ID) == "" {
		errs = multierr.Append(errs, errors.New("id: MUST be a non-empty string"))
	}

	// type
	// REQUIRED, MUST be a non-empty string.
	if strings.TrimSpace(ec.Type) == "" {
		errs = multierr.Append(errs, errors.New("type: MUST be a non-empty string"))
	}

	// source
	// REQUIRED, URI-reference.
	if strings.TrimSpace(ec.Source.String()) == "" {
		errs = multierr.Append(errs, errors.New("source: REQUIRED"))
	}

	// subject
	// OPTIONAL, if present MUST be a non-empty string.
	if ec.Subject != nil && strings.TrimSpace(*ec.Subject) == "" {
		errs = multierr.Append(errs, errors.New("subject: if present, MUST be a non-empty string"))
	}

	// time is OPTIONAL and cannot hold an unparseable value by construction.

	// schemaurl
	// OPTIONAL, if present MUST adhere to RFC 3986.
	if ec.SchemaURL != nil && strings.TrimSpace(ec.SchemaURL.String()) == "" {
		errs = multierr.Append(errs, errors.New("schemaurl: if present, MUST adhere to the format specified in RFC 3986"))
	}

	// datacontenttype
	// OPTIONAL, if present MUST adhere to RFC 2046.
	if ec.DataContentType != nil && strings.TrimSpace(*ec.DataContentType) == "" {
		errs = multierr.Append(errs, errors.New("datacontenttype: if present, MUST adhere to the format specified in RFC 2046"))
	}

	return errs
}
