package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"mapforge/internal/common"
)

// scopeKind distinguishes the two container scopes a builder can be in.
type scopeKind int

const (
	scopeObject scopeKind = iota
	scopeArray
)

// String returns a human-readable scope name.
func (k scopeKind) String() string {
	switch k {
	case scopeObject:
		return "object"
	case scopeArray:
		return "array"
	default:
		return common.UnknownStr
	}
}

// scope tracks one open object or array.
type scope struct {
	kind    scopeKind
	members int
}

// Builder incrementally writes one JSON document, preserving member
// insertion order byte-for-byte.
//
// Structural misuse (closing a scope that was not opened, writing a value
// outside the document, a nameless member inside an object) is recorded on
// first occurrence and turns every later call into a no-op; the recorded
// error surfaces at Bytes time. This makes unbalanced scopes a programming
// error detectable at serialization time rather than a silent corruption.
type Builder struct {
	buf   bytes.Buffer
	stack []scope
	err   error
}

// NewBuilder creates an empty document builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// StartObject opens an object scope. Inside an object the name is required;
// at the document root and inside arrays it must be empty.
func (b *Builder) StartObject(name string) {
	if !b.beginMember(name) {
		return
	}

	b.buf.WriteByte('{')
	b.stack = append(b.stack, scope{kind: scopeObject})
}

// EndObject closes the innermost object scope.
func (b *Builder) EndObject() {
	b.endScope(scopeObject, '}')
}

// StartArray opens an array scope under the given name.
func (b *Builder) StartArray(name string) {
	if !b.beginMember(name) {
		return
	}

	b.buf.WriteByte('[')
	b.stack = append(b.stack, scope{kind: scopeArray})
}

// EndArray closes the innermost array scope.
func (b *Builder) EndArray() {
	b.endScope(scopeArray, ']')
}

// Field writes one named member with a JSON-encoded value. Values are
// limited to what encoding/json can marshal; an unsupported value poisons
// the builder.
func (b *Builder) Field(name string, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		b.fail(fmt.Errorf("encoding value for %q: %w", name, err))
		return
	}

	if !b.beginMember(name) {
		return
	}

	b.buf.Write(encoded)
}

// RawField writes one named member with a pre-encoded JSON value, verbatim.
// The caller is responsible for the fragment being valid JSON.
func (b *Builder) RawField(name string, raw []byte) {
	if len(raw) == 0 {
		b.fail(fmt.Errorf("empty raw value for %q", name))
		return
	}

	if !b.beginMember(name) {
		return
	}

	b.buf.Write(raw)
}

// Array writes one named member holding an array of strings.
func (b *Builder) Array(name string, values ...string) {
	if values == nil {
		values = []string{}
	}

	b.Field(name, values)
}

// Bytes finalizes the document. It fails if any scope is still open or any
// earlier call recorded a structural error.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}

	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		return nil, fmt.Errorf("document has %d unclosed scope(s), innermost is an %s", len(b.stack), top.kind)
	}

	return b.buf.Bytes(), nil
}

// Err returns the first structural error recorded so far, if any.
func (b *Builder) Err() error {
	return b.err
}

// beginMember writes the separating comma and, inside objects, the member
// name. It reports whether the caller may write the value.
func (b *Builder) beginMember(name string) bool {
	if b.err != nil {
		return false
	}

	if len(b.stack) == 0 {
		if b.buf.Len() > 0 {
			b.fail(errors.New("document already holds a root value"))
			return false
		}

		if name != "" {
			b.fail(fmt.Errorf("root value cannot carry the name %q", name))
			return false
		}

		return true
	}

	top := &b.stack[len(b.stack)-1]
	if top.members > 0 {
		b.buf.WriteByte(',')
	}

	top.members++

	switch top.kind {
	case scopeObject:
		if name == "" {
			b.fail(errors.New("object member requires a name"))
			return false
		}

		b.writeName(name)

	case scopeArray:
		if name != "" {
			b.fail(fmt.Errorf("array element cannot carry the name %q", name))
			return false
		}
	}

	return true
}

// endScope closes the innermost scope, verifying its kind.
func (b *Builder) endScope(kind scopeKind, closer byte) {
	if b.err != nil {
		return
	}

	if len(b.stack) == 0 {
		b.fail(fmt.Errorf("closing an %s that was not opened", kind))
		return
	}

	top := b.stack[len(b.stack)-1]
	if top.kind != kind {
		b.fail(fmt.Errorf("closing an %s while an %s is open", kind, top.kind))
		return
	}

	b.stack = b.stack[:len(b.stack)-1]
	b.buf.WriteByte(closer)
}

func (b *Builder) writeName(name string) {
	// Marshal never fails for a string and handles JSON escaping.
	quoted, _ := json.Marshal(name)
	b.buf.Write(quoted)
	b.buf.WriteByte(':')
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
