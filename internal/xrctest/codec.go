// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xrctest

// Wire is an in-memory log of primitive codec calls, shared by a
// RecordingEncoder and RecordingDecoder so a scenario test can write
// through one and read back through the other over the same log,
// exercising a full write-then-read round trip without a real binary
// format.
type Wire struct {
	ops []wireOp
}

type wireOp struct {
	kind string
	b    bool
	i32  int32
	i64  int64
	f32  float32
	f64  float64
	by   []byte
	s    string
	n    int
}

// RecordingEncoder implements collab.BinaryEncoder onto a Wire.
type RecordingEncoder struct{ W *Wire }

func NewRecordingEncoder(w *Wire) *RecordingEncoder { return &RecordingEncoder{W: w} }

func (e *RecordingEncoder) push(op wireOp) error { e.W.ops = append(e.W.ops, op); return nil }

func (e *RecordingEncoder) WriteNull() error           { return e.push(wireOp{kind: "null"}) }
func (e *RecordingEncoder) WriteBoolean(v bool) error  { return e.push(wireOp{kind: "bool", b: v}) }
func (e *RecordingEncoder) WriteInt(v int32) error     { return e.push(wireOp{kind: "int", i32: v}) }
func (e *RecordingEncoder) WriteLong(v int64) error    { return e.push(wireOp{kind: "long", i64: v}) }
func (e *RecordingEncoder) WriteFloat(v float32) error { return e.push(wireOp{kind: "float", f32: v}) }
func (e *RecordingEncoder) WriteDouble(v float64) error {
	return e.push(wireOp{kind: "double", f64: v})
}
func (e *RecordingEncoder) WriteBytes(v []byte) error  { return e.push(wireOp{kind: "bytes", by: v}) }
func (e *RecordingEncoder) WriteString(v string) error { return e.push(wireOp{kind: "string", s: v}) }
func (e *RecordingEncoder) WriteEnum(ordinal int) error {
	return e.push(wireOp{kind: "enum", n: ordinal})
}
func (e *RecordingEncoder) WriteIndex(tag int) error { return e.push(wireOp{kind: "index", n: tag}) }
func (e *RecordingEncoder) WriteArrayStart() error   { return e.push(wireOp{kind: "array_start"}) }
func (e *RecordingEncoder) SetItemCount(n int) error {
	return e.push(wireOp{kind: "item_count", n: n})
}
func (e *RecordingEncoder) StartItem() error  { return e.push(wireOp{kind: "start_item"}) }
func (e *RecordingEncoder) WriteArrayEnd() error { return e.push(wireOp{kind: "array_end"}) }
func (e *RecordingEncoder) WriteMapStart() error { return e.push(wireOp{kind: "map_start"}) }
func (e *RecordingEncoder) StartMapItem(key string) error {
	return e.push(wireOp{kind: "map_item", s: key})
}
func (e *RecordingEncoder) WriteMapEnd() error { return e.push(wireOp{kind: "map_end"}) }

// RecordingDecoder replays a Wire in order, implementing
// collab.BinaryDecoder.
type RecordingDecoder struct {
	W          *Wire
	pos        int
	arrayCount []int
}

func NewRecordingDecoder(w *Wire) *RecordingDecoder { return &RecordingDecoder{W: w} }

func (d *RecordingDecoder) next() wireOp {
	op := d.W.ops[d.pos]
	d.pos++
	return op
}

func (d *RecordingDecoder) ReadNull() error             { d.next(); return nil }
func (d *RecordingDecoder) ReadBoolean() (bool, error)   { return d.next().b, nil }
func (d *RecordingDecoder) ReadInt() (int32, error)      { return d.next().i32, nil }
func (d *RecordingDecoder) ReadLong() (int64, error)     { return d.next().i64, nil }
func (d *RecordingDecoder) ReadFloat() (float32, error)  { return d.next().f32, nil }
func (d *RecordingDecoder) ReadDouble() (float64, error) { return d.next().f64, nil }
func (d *RecordingDecoder) ReadBytes() ([]byte, error)   { return d.next().by, nil }
func (d *RecordingDecoder) ReadString() (string, error)  { return d.next().s, nil }
func (d *RecordingDecoder) ReadEnum() (int, error)       { return d.next().n, nil }
func (d *RecordingDecoder) ReadIndex() (int, error)      { return d.next().n, nil }

func (d *RecordingDecoder) ReadArrayStart() error {
	d.next()
	n := d.next()
	d.arrayCount = append(d.arrayCount, n.n)
	return nil
}

func (d *RecordingDecoder) ArrayNext() (bool, error) {
	top := len(d.arrayCount) - 1
	if d.arrayCount[top] == 0 {
		d.arrayCount = d.arrayCount[:top]
		d.next() // array_end
		return false, nil
	}
	d.arrayCount[top]--
	d.next() // start_item
	return true, nil
}

func (d *RecordingDecoder) ReadMapStart() error            { d.next(); return nil }
func (d *RecordingDecoder) MapNext() (string, bool, error) { return "", false, nil }
