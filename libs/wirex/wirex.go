// Package wirex encodes ledger records in the protobuf wire format.
// Fields are always written in the order they are appended, so the
// encoding of a record is deterministic.
package wirex

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Bytes(num protowire.Number, v []byte) *Encoder {
	if len(v) == 0 {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
	return e
}

func (e *Encoder) String(num protowire.Number, v string) *Encoder {
	if v == "" {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
	return e
}

func (e *Encoder) Uint64(num protowire.Number, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

func (e *Encoder) Encode() []byte {
	if e.buf == nil {
		return []byte{}
	}
	return e.buf
}

// Field is a decoded field value.
type Field struct {
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func (f Field) Uint64() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("wrong wire type %d for varint", f.typ)
	}
	return f.varint, nil
}

// Bytes returns a copy of the field's bytes.
func (f Field) Bytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("wrong wire type %d for bytes", f.typ)
	}
	return append([]byte(nil), f.bytes...), nil
}

func (f Field) String() (string, error) {
	if f.typ != protowire.BytesType {
		return "", fmt.Errorf("wrong wire type %d for string", f.typ)
	}
	return string(f.bytes), nil
}

// Walk calls `cb` for every varint or bytes field of `bz`.
// Fields of other types are skipped.
func Walk(bz []byte, cb func(protowire.Number, Field) error) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return protowire.ParseError(n)
		}
		bz = bz[n:]

		var f Field
		switch typ {
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(bz)
			if m < 0 {
				return protowire.ParseError(m)
			}
			f, n = Field{typ: typ, varint: v}, m
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(bz)
			if m < 0 {
				return protowire.ParseError(m)
			}
			f, n = Field{typ: typ, bytes: v}, m
		default:
			m := protowire.ConsumeFieldValue(num, typ, bz)
			if m < 0 {
				return protowire.ParseError(m)
			}
			bz = bz[m:]
			continue
		}
		bz = bz[n:]

		if err := cb(num, f); err != nil {
			return err
		}
	}
	return nil
}
