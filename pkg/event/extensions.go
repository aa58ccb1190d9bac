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
	"fmt"
	"sort"
	"strconv"
)

// ErrUnsupportedExtensionType is returned when an extension value is offered
// with a runtime type outside the supported scalar set.
var ErrUnsupportedExtensionType = errors.New("extension values must be a string, a number or a boolean")

// ExtensionKind discriminates the scalar forms an extension value takes.
type ExtensionKind int

const (
	// ExtensionInvalid is the kind of the zero ExtensionValue. Values of
	// this kind fail when an event carrying them is visited.
	ExtensionInvalid ExtensionKind = iota
	ExtensionString
	ExtensionNumber
	ExtensionBool
)

func (k ExtensionKind) String() string {
	switch k {
	case ExtensionString:
		return "string"
	case ExtensionNumber:
		return "number"
	case ExtensionBool:
		return "boolean"
	}
	return "invalid"
}

// ExtensionValue is a tagged scalar: exactly one of string, number or
// boolean. The zero value carries no scalar and is invalid.
type ExtensionValue struct {
	kind ExtensionKind
	str  string
	num  float64
	b    bool
}

// StringValue returns an ExtensionValue holding a string.
func StringValue(v string) ExtensionValue {
	return ExtensionValue{kind: ExtensionString, str: v}
}

// NumberValue returns an ExtensionValue holding a number. Numbers carry JSON
// number semantics: one float64 space for integral and fractional values.
func NumberValue(v float64) ExtensionValue {
	return ExtensionValue{kind: ExtensionNumber, num: v}
}

// BoolValue returns an ExtensionValue holding a boolean.
func BoolValue(v bool) ExtensionValue {
	return ExtensionValue{kind: ExtensionBool, b: v}
}

// NewExtensionValue canonicalizes a runtime scalar into its tagged form.
// Every integer and float type becomes a Number. Anything outside the scalar
// set fails with ErrUnsupportedExtensionType; there is no stringification
// fallback.
func NewExtensionValue(v interface{}) (ExtensionValue, error) {
	switch x := v.(type) {
	case ExtensionValue:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return NumberValue(float64(x)), nil
	case int8:
		return NumberValue(float64(x)), nil
	case int16:
		return NumberValue(float64(x)), nil
	case int32:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case uint:
		return NumberValue(float64(x)), nil
	case uint8:
		return NumberValue(float64(x)), nil
	case uint16:
		return NumberValue(float64(x)), nil
	case uint32:
		return NumberValue(float64(x)), nil
	case uint64:
		return NumberValue(float64(x)), nil
	case float32:
		return NumberValue(float64(x)), nil
	case float64:
		return NumberValue(x), nil
	}
	return ExtensionValue{}, fmt.Errorf("%w, got %T", ErrUnsupportedExtensionType, v)
}

// Kind reports which scalar the value holds.
func (v ExtensionValue) Kind() ExtensionKind { return v.kind }

// AsString returns the held string; it is only meaningful for ExtensionString.
func (v ExtensionValue) AsString() string { return v.str }

// AsNumber returns the held number; it is only meaningful for ExtensionNumber.
func (v ExtensionValue) AsNumber() float64 { return v.num }

// AsBool returns the held boolean; it is only meaningful for ExtensionBool.
func (v ExtensionValue) AsBool() bool { return v.b }

// Interface returns the held scalar as an untyped value: string, float64 or
// bool. The zero value returns nil.
func (v ExtensionValue) Interface() interface{} {
	switch v.kind {
	case ExtensionString:
		return v.str
	case ExtensionNumber:
		return v.num
	case ExtensionBool:
		return v.b
	}
	return nil
}

// Emit renders the scalar as the string transports degrade it to. Integral
// numbers render without a decimal point, so NumberValue(10) emits "10".
func (v ExtensionValue) Emit() string {
	switch v.kind {
	case ExtensionString:
		return v.str
	case ExtensionNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ExtensionBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v ExtensionValue) String() string { return v.Emit() }

// Extensions maps extension attribute names to their tagged values.
type Extensions map[string]ExtensionValue

// Names returns the extension names sorted, so visits are deterministic.
func (e Extensions) Names() []string {
	if len(e) == 0 {
		return nil
	}
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy; a nil map stays nil.
func (e Extensions) Clone() Extensions {
	if e == nil {
		return nil
	}
	out := make(Extensions, len(e))
	for name, value := range e {
		out[name] = value
	}
	return out
}
