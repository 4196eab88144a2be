// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import "fmt"

// Kind is the tag byte that introduces an element on the wire.
type Kind byte

const (
	KindDouble        Kind = 0x01
	KindString        Kind = 0x02
	KindDocument      Kind = 0x03
	KindArray         Kind = 0x04
	KindBinary        Kind = 0x05
	KindUndefined     Kind = 0x06
	KindObjectID      Kind = 0x07
	KindBoolean       Kind = 0x08
	KindDateTime      Kind = 0x09
	KindNull          Kind = 0x0A
	KindRegex         Kind = 0x0B
	KindDBPointer     Kind = 0x0C
	KindCode          Kind = 0x0D
	KindSymbol        Kind = 0x0E
	KindCodeWithScope Kind = 0x0F
	KindInt32         Kind = 0x10
	KindTimestamp     Kind = 0x11
	KindInt64         Kind = 0x12
	KindMaxKey        Kind = 0x7F
	KindMinKey        Kind = 0xFF
)

var kindNames = map[Kind]string{
	KindDouble:        "double",
	KindString:        "string",
	KindDocument:      "document",
	KindArray:         "array",
	KindBinary:        "binary",
	KindUndefined:     "undefined",
	KindObjectID:      "objectId",
	KindBoolean:       "boolean",
	KindDateTime:      "datetime",
	KindNull:          "null",
	KindRegex:         "regex",
	KindDBPointer:     "dbPointer",
	KindCode:          "code",
	KindSymbol:        "symbol",
	KindCodeWithScope: "codeWithScope",
	KindInt32:         "int32",
	KindTimestamp:     "timestamp",
	KindInt64:         "int64",
	KindMaxKey:        "maxKey",
	KindMinKey:        "minKey",
}

// String returns the tag's name, or its hex value for tags outside the
// closed set.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(0x%02x)", byte(k))
}

// Known reports whether k is one of the tags this package encodes and
// decodes.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// Value is a document element value. The set of implementations is
// closed: only types in this package satisfy it.
type Value interface {
	// Kind returns the tag written before this value on the wire.
	Kind() Kind

	bsonValue()
}

// Element is one named value in a [Document].
type Element struct {
	Name  string
	Value Value
}

// Document is an ordered sequence of named values. Order is preserved
// through encoding and decoding. Duplicate names are representable and
// kept as-is.
type Document []Element

// Lookup returns the value of the first element named name.
func (d Document) Lookup(name string) (Value, bool) {
	for _, element := range d {
		if element.Name == name {
			return element.Value, true
		}
	}
	return nil, false
}

// Names returns the element names in order.
func (d Document) Names() []string {
	names := make([]string, len(d))
	for i, element := range d {
		names[i] = element.Name
	}
	return names
}

// Array is an ordered sequence of values, written as a document whose
// element names are the decimal indexes.
type Array []Value

// BinarySubtype qualifies the contents of a [Binary] value.
type BinarySubtype byte

const (
	SubtypeGeneric     BinarySubtype = 0x00
	SubtypeFunction    BinarySubtype = 0x01
	SubtypeOldBinary   BinarySubtype = 0x02
	SubtypeUUID        BinarySubtype = 0x03
	SubtypeMD5         BinarySubtype = 0x05
	SubtypeUserDefined BinarySubtype = 0x80
)

// Binary is an opaque byte string with a subtype. Subtypes outside the
// named constants round-trip unchanged.
type Binary struct {
	Subtype BinarySubtype
	Data    []byte
}

type (
	// Double is an IEEE-754 binary64 number.
	Double float64

	// String is UTF-8 text limited to code points up to U+FFFF.
	String string

	// Boolean is true or false, one byte on the wire.
	Boolean bool

	// DateTime is milliseconds since the Unix epoch, UTC.
	DateTime int64

	// Code is JavaScript source text. It is stored, never evaluated.
	Code string

	// Symbol is a string tagged as a symbol.
	Symbol string

	// Int32 is a signed 32-bit integer.
	Int32 int32

	// Int64 is a signed 64-bit integer.
	Int64 int64
)

// Undefined is the deprecated undefined value. It has no payload.
type Undefined struct{}

// Null has no payload.
type Null struct{}

// MinKey compares lower than every other value. It has no payload.
type MinKey struct{}

// MaxKey compares higher than every other value. It has no payload.
type MaxKey struct{}

// Regex is a regular expression source with its flags.
type Regex struct {
	Pattern string
	Flags   RegexFlags
}

// DBPointer references a document by collection name and id.
type DBPointer struct {
	Collection string
	ID         ObjectID
}

// CodeWithScope is JavaScript source with a document of bound
// variables.
type CodeWithScope struct {
	Code  string
	Scope Document
}

// Timestamp is an internal replication timestamp: an ordinal within
// the second and the epoch seconds. The steps word is written first.
type Timestamp struct {
	Steps   uint32
	Seconds uint32
}

func (Double) Kind() Kind        { return KindDouble }
func (String) Kind() Kind        { return KindString }
func (Document) Kind() Kind      { return KindDocument }
func (Array) Kind() Kind         { return KindArray }
func (Binary) Kind() Kind        { return KindBinary }
func (Undefined) Kind() Kind     { return KindUndefined }
func (ObjectID) Kind() Kind      { return KindObjectID }
func (Boolean) Kind() Kind       { return KindBoolean }
func (DateTime) Kind() Kind      { return KindDateTime }
func (Null) Kind() Kind          { return KindNull }
func (Regex) Kind() Kind         { return KindRegex }
func (DBPointer) Kind() Kind     { return KindDBPointer }
func (Code) Kind() Kind          { return KindCode }
func (Symbol) Kind() Kind        { return KindSymbol }
func (CodeWithScope) Kind() Kind { return KindCodeWithScope }
func (Int32) Kind() Kind         { return KindInt32 }
func (Timestamp) Kind() Kind     { return KindTimestamp }
func (Int64) Kind() Kind         { return KindInt64 }
func (MinKey) Kind() Kind        { return KindMinKey }
func (MaxKey) Kind() Kind        { return KindMaxKey }

func (Double) bsonValue()        {}
func (String) bsonValue()        {}
func (Document) bsonValue()      {}
func (Array) bsonValue()         {}
func (Binary) bsonValue()        {}
func (Undefined) bsonValue()     {}
func (ObjectID) bsonValue()      {}
func (Boolean) bsonValue()       {}
func (DateTime) bsonValue()      {}
func (Null) bsonValue()          {}
func (Regex) bsonValue()         {}
func (DBPointer) bsonValue()     {}
func (Code) bsonValue()          {}
func (Symbol) bsonValue()        {}
func (CodeWithScope) bsonValue() {}
func (Int32) bsonValue()         {}
func (Timestamp) bsonValue()     {}
func (Int64) bsonValue()         {}
func (MinKey) bsonValue()        {}
func (MaxKey) bsonValue()        {}
