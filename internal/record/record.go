package record

import (
	"errors"
)

// ErrMissingSignature is returned when a stored document has no signature.
var ErrMissingSignature = errors.New("missing required field \"signature\"")

// Record is a single signature document.
//
// Optional fields are pointers; nil means absent. Absent fields are written
// back as explicit nulls, so the tags deliberately carry no omitempty.
type Record struct {
	Signature          string  `json:"signature" bson:"signature" yaml:"signature"`
	Slot               *int64  `json:"slot" bson:"slot" yaml:"slot,omitempty"`
	Err                *string `json:"err" bson:"err" yaml:"err,omitempty"`
	Memo               *string `json:"memo" bson:"memo" yaml:"memo,omitempty"`
	BlockTime          *int64  `json:"block_time" bson:"block_time" yaml:"block_time,omitempty"`
	ConfirmationStatus *string `json:"confirmation_status" bson:"confirmation_status" yaml:"confirmation_status,omitempty"`
}

// Int returns a present optional integer.
func Int(v int64) *int64 {
	return &v
}

// String returns a present optional string.
func String(v string) *string {
	return &v
}

// optional holds a value plus its presence, so absent compares unequal
// to every present value including the zero value.
type optional[T comparable] struct {
	set bool
	v   T
}

func opt[T comparable](p *T) optional[T] {
	if p == nil {
		return optional[T]{}
	}
	return optional[T]{set: true, v: *p}
}

// Key is the comparable identity of a Record under full-value equality.
// Two records are equal iff their keys are equal.
type Key struct {
	signature          string
	slot               optional[int64]
	err                optional[string]
	memo               optional[string]
	blockTime          optional[int64]
	confirmationStatus optional[string]
}

// Key returns the record's identity for deduplication and membership tests.
func (r Record) Key() Key {
	return Key{
		signature:          r.Signature,
		slot:               opt(r.Slot),
		err:                opt(r.Err),
		memo:               opt(r.Memo),
		blockTime:          opt(r.BlockTime),
		confirmationStatus: opt(r.ConfirmationStatus),
	}
}

// Equal reports whether a and b are equal in every field.
func Equal(a, b Record) bool {
	return a.Key() == b.Key()
}

// Document is the decode shape shared by the store backends.
// Signature is a pointer so a missing key can be told apart from "".
type Document struct {
	Signature          *string `json:"signature" bson:"signature"`
	Slot               *int64  `json:"slot" bson:"slot"`
	Err                *string `json:"err" bson:"err"`
	Memo               *string `json:"memo" bson:"memo"`
	BlockTime          *int64  `json:"block_time" bson:"block_time"`
	ConfirmationStatus *string `json:"confirmation_status" bson:"confirmation_status"`
}

// Record converts a decoded document to a Record.
// Returns ErrMissingSignature if the signature key is absent or null.
func (d Document) Record() (Record, error) {
	if d.Signature == nil {
		return Record{}, ErrMissingSignature
	}
	return Record{
		Signature:          *d.Signature,
		Slot:               d.Slot,
		Err:                d.Err,
		Memo:               d.Memo,
		BlockTime:          d.BlockTime,
		ConfirmationStatus: d.ConfirmationStatus,
	}, nil
}
