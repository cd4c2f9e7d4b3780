package rpc

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// The messages below follow engine.proto field for field and are
// written by hand in protobuf wire format.

type AnalyzeRequest struct {
	Position   string
	Difficulty string
	Depth      int32
}

type AnalyzeResponse struct {
	Move      int32
	Pv        []string
	Value     int64
	Legal     []int32
	Evaluated uint64
}

type PlayRequest struct {
	Position string
	Pit      int32
}

type PlayResponse struct {
	Position  string
	Captured  int32
	GrandSlam bool
	GameOver  bool
	Winner    int32
	Reason    string
}

type message interface {
	encode(b *proto.Buffer) error
	decode(b *proto.Buffer) error
}

const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

type encoder struct {
	b   *proto.Buffer
	err error
}

func (e *encoder) key(field, wire int) {
	if e.err == nil {
		e.err = e.b.EncodeVarint(uint64(field<<3 | wire))
	}
}

func (e *encoder) string(field int, s string) {
	if s == "" || e.err != nil {
		return
	}
	e.key(field, wireBytes)
	if e.err == nil {
		e.err = e.b.EncodeStringBytes(s)
	}
}

func (e *encoder) varint(field int, v uint64) {
	if v == 0 || e.err != nil {
		return
	}
	e.key(field, wireVarint)
	if e.err == nil {
		e.err = e.b.EncodeVarint(v)
	}
}

func (e *encoder) bool(field int, v bool) {
	if v {
		e.varint(field, 1)
	}
}

func (e *encoder) sint32(field int, v int32) {
	if v == 0 || e.err != nil {
		return
	}
	e.key(field, wireVarint)
	if e.err == nil {
		e.err = e.b.EncodeZigzag32(uint64(v))
	}
}

func (e *encoder) sint64(field int, v int64) {
	if v == 0 || e.err != nil {
		return
	}
	e.key(field, wireVarint)
	if e.err == nil {
		e.err = e.b.EncodeZigzag64(uint64(v))
	}
}

func (e *encoder) packed(field int, vs []int32) {
	if len(vs) == 0 || e.err != nil {
		return
	}
	inner := proto.NewBuffer(nil)
	for _, v := range vs {
		if err := inner.EncodeVarint(uint64(v)); err != nil {
			e.err = err
			return
		}
	}
	e.key(field, wireBytes)
	if e.err == nil {
		e.err = e.b.EncodeRawBytes(inner.Bytes())
	}
}

// decodeFields calls f for every field in b. Fields f does not consume
// are skipped.
func decodeFields(b *proto.Buffer, f func(field, wire int) (bool, error)) error {
	for len(b.Unread()) > 0 {
		k, err := b.DecodeVarint()
		if err != nil {
			return err
		}
		field, wire := int(k>>3), int(k&7)
		ok, err := f(field, wire)
		if err != nil {
			return fmt.Errorf("field %d: %w", field, err)
		}
		if !ok {
			if err := skip(b, wire); err != nil {
				return err
			}
		}
	}
	return nil
}

func skip(b *proto.Buffer, wire int) error {
	var err error
	switch wire {
	case wireVarint:
		_, err = b.DecodeVarint()
	case wireFixed64:
		_, err = b.DecodeFixed64()
	case wireBytes:
		_, err = b.DecodeRawBytes(false)
	case wireFixed32:
		_, err = b.DecodeFixed32()
	default:
		err = fmt.Errorf("unsupported wire type %d", wire)
	}
	return err
}

func decodeInt32s(b *proto.Buffer, wire int, out *[]int32) error {
	if wire == wireVarint {
		v, err := b.DecodeVarint()
		*out = append(*out, int32(v))
		return err
	}
	raw, err := b.DecodeRawBytes(false)
	if err != nil {
		return err
	}
	inner := proto.NewBuffer(raw)
	for len(inner.Unread()) > 0 {
		v, err := inner.DecodeVarint()
		if err != nil {
			return err
		}
		*out = append(*out, int32(v))
	}
	return nil
}

func (m *AnalyzeRequest) encode(b *proto.Buffer) error {
	e := encoder{b: b}
	e.string(1, m.Position)
	e.string(2, m.Difficulty)
	e.varint(3, uint64(m.Depth))
	return e.err
}

func (m *AnalyzeRequest) decode(b *proto.Buffer) error {
	return decodeFields(b, func(field, wire int) (bool, error) {
		var err error
		switch {
		case field == 1 && wire == wireBytes:
			m.Position, err = b.DecodeStringBytes()
		case field == 2 && wire == wireBytes:
			m.Difficulty, err = b.DecodeStringBytes()
		case field == 3 && wire == wireVarint:
			var v uint64
			v, err = b.DecodeVarint()
			m.Depth = int32(v)
		default:
			return false, nil
		}
		return true, err
	})
}

func (m *AnalyzeResponse) encode(b *proto.Buffer) error {
	e := encoder{b: b}
	e.sint32(1, m.Move)
	for _, s := range m.Pv {
		e.key(2, wireBytes)
		if e.err == nil {
			e.err = b.EncodeStringBytes(s)
		}
	}
	e.sint64(3, m.Value)
	e.packed(4, m.Legal)
	e.varint(5, m.Evaluated)
	return e.err
}

func (m *AnalyzeResponse) decode(b *proto.Buffer) error {
	return decodeFields(b, func(field, wire int) (bool, error) {
		var err error
		switch {
		case field == 1 && wire == wireVarint:
			var v uint64
			v, err = b.DecodeZigzag32()
			m.Move = int32(v)
		case field == 2 && wire == wireBytes:
			var s string
			s, err = b.DecodeStringBytes()
			m.Pv = append(m.Pv, s)
		case field == 3 && wire == wireVarint:
			var v uint64
			v, err = b.DecodeZigzag64()
			m.Value = int64(v)
		case field == 4:
			err = decodeInt32s(b, wire, &m.Legal)
		case field == 5 && wire == wireVarint:
			m.Evaluated, err = b.DecodeVarint()
		default:
			return false, nil
		}
		return true, err
	})
}

func (m *PlayRequest) encode(b *proto.Buffer) error {
	e := encoder{b: b}
	e.string(1, m.Position)
	e.varint(2, uint64(m.Pit))
	return e.err
}

func (m *PlayRequest) decode(b *proto.Buffer) error {
	return decodeFields(b, func(field, wire int) (bool, error) {
		var err error
		switch {
		case field == 1 && wire == wireBytes:
			m.Position, err = b.DecodeStringBytes()
		case field == 2 && wire == wireVarint:
			var v uint64
			v, err = b.DecodeVarint()
			m.Pit = int32(v)
		default:
			return false, nil
		}
		return true, err
	})
}

func (m *PlayResponse) encode(b *proto.Buffer) error {
	e := encoder{b: b}
	e.string(1, m.Position)
	e.varint(2, uint64(m.Captured))
	e.bool(3, m.GrandSlam)
	e.bool(4, m.GameOver)
	e.sint32(5, m.Winner)
	e.string(6, m.Reason)
	return e.err
}

func (m *PlayResponse) decode(b *proto.Buffer) error {
	return decodeFields(b, func(field, wire int) (bool, error) {
		var err error
		var v uint64
		switch {
		case field == 1 && wire == wireBytes:
			m.Position, err = b.DecodeStringBytes()
		case field == 2 && wire == wireVarint:
			v, err = b.DecodeVarint()
			m.Captured = int32(v)
		case field == 3 && wire == wireVarint:
			v, err = b.DecodeVarint()
			m.GrandSlam = v != 0
		case field == 4 && wire == wireVarint:
			v, err = b.DecodeVarint()
			m.GameOver = v != 0
		case field == 5 && wire == wireVarint:
			v, err = b.DecodeZigzag32()
			m.Winner = int32(v)
		case field == 6 && wire == wireBytes:
			m.Reason, err = b.DecodeStringBytes()
		default:
			return false, nil
		}
		return true, err
	})
}
