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

package types

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// URIRef wraps url.URL for attributes declared as URI-references
// (source, schemaurl, dataschema).
type URIRef struct {
	url.URL
}

// ParseURIRef parses a URI-reference. Empty input is an error; callers that
// allow absence check for "" before calling.
func ParseURIRef(u string) (*URIRef, error) {
	if u == "" {
		return nil, fmt.Errorf("URI-reference is empty")
	}
	pu, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid URI-reference %q: %w", u, err)
	}
	return &URIRef{URL: *pu}, nil
}

func (u URIRef) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", u.String())), nil
}

func (u *URIRef) UnmarshalJSON(b []byte) error {
	var ref string
	if err := json.Unmarshal(b, &ref); err != nil {
		return err
	}
	r, err := ParseURIRef(ref)
	if err != nil {
		return err
	}
	*u = *r
	return nil
}

func (u *URIRef) String() string {
	if u == nil {
		return ""
	}
	return u.URL.String()
}
