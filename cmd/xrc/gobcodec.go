// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/gob"
	"io"
)

// gobEncoder/gobDecoder give the CLI a concrete collab.BinaryEncoder/
// BinaryDecoder pair: one tagged token per primitive call, the way
// internal/xrctest's RecordingEncoder/RecordingDecoder log calls for
// tests, but persisted through encoding/gob instead of an in-memory
// slice. The wire format's concrete bytes are a collaborator concern
// xrc itself takes no position on; this is the CLI's own choice of a
// minimal stdlib codec, not a library wired into the transcoder core.
type token struct {
	Kind string
	B    bool
	I32  int32
	I64  int64
	F32  float32
	F64  float64
	By   []byte
	S    string
	N    int
}

type gobEncoder struct {
	enc *gob.Encoder
}

func newGobEncoder(w io.Writer) *gobEncoder { return &gobEncoder{enc: gob.NewEncoder(w)} }

func (e *gobEncoder) write(t token) error { return e.enc.Encode(t) }

func (e *gobEncoder) WriteNull() error           { return e.write(token{Kind: "null"}) }
func (e *gobEncoder) WriteBoolean(v bool) error  { return e.write(token{Kind: "bool", B: v}) }
func (e *gobEncoder) WriteInt(v int32) error     { return e.write(token{Kind: "int", I32: v}) }
func (e *gobEncoder) WriteLong(v int64) error    { return e.write(token{Kind: "long", I64: v}) }
func (e *gobEncoder) WriteFloat(v float32) error { return e.write(token{Kind: "float", F32: v}) }
func (e *gobEncoder) WriteDouble(v float64) error {
	return e.write(token{Kind: "double", F64: v})
}
func (e *gobEncoder) WriteBytes(v []byte) error  { return e.write(token{Kind: "bytes", By: v}) }
func (e *gobEncoder) WriteString(v string) error { return e.write(token{Kind: "string", S: v}) }
func (e *gobEncoder) WriteEnum(ordinal int) error {
	return e.write(token{Kind: "enum", N: ordinal})
}
func (e *gobEncoder) WriteIndex(tag int) error { return e.write(token{Kind: "index", N: tag}) }
func (e *gobEncoder) WriteArrayStart() error   { return e.write(token{Kind: "array_start"}) }
func (e *gobEncoder) SetItemCount(n int) error { return e.write(token{Kind: "item_count", N: n}) }
func (e *gobEncoder) StartItem() error         { return e.write(token{Kind: "start_item"}) }
func (e *gobEncoder) WriteArrayEnd() error     { return e.write(token{Kind: "array_end"}) }
func (e *gobEncoder) WriteMapStart() error     { return e.write(token{Kind: "map_start"}) }
func (e *gobEncoder) StartMapItem(key string) error {
	return e.write(token{Kind: "map_item", S: key})
}
func (e *gobEncoder) WriteMapEnd() error { return e.write(token{Kind: "map_end"}) }

type gobDecoder struct {
	dec        *gob.Decoder
	arrayCount []int
}

func newGobDecoder(r io.Reader) *gobDecoder { return &gobDecoder{dec: gob.NewDecoder(r)} }

func (d *gobDecoder) next() (token, error) {
	var t token
	err := d.dec.Decode(&t)
	return t, err
}

func (d *gobDecoder) ReadNull() error { _, err := d.next(); return err }
func (d *gobDecoder) ReadBoolean() (bool, error) {
	t, err := d.next()
	return t.B, err
}
func (d *gobDecoder) ReadInt() (int32, error) {
	t, err := d.next()
	return t.I32, err
}
func (d *gobDecoder) ReadLong() (int64, error) {
	t, err := d.next()
	return t.I64, err
}
func (d *gobDecoder) ReadFloat() (float32, error) {
	t, err := d.next()
	return t.F32, err
}
func (d *gobDecoder) ReadDouble() (float64, error) {
	t, err := d.next()
	return t.F64, err
}
func (d *gobDecoder) ReadBytes() ([]byte, error) {
	t, err := d.next()
	return t.By, err
}
func (d *gobDecoder) ReadString() (string, error) {
	t, err := d.next()
	return t.S, err
}
func (d *gobDecoder) ReadEnum() (int, error) {
	t, err := d.next()
	return t.N, err
}
func (d *gobDecoder) ReadIndex() (int, error) {
	t, err := d.next()
	return t.N, err
}

func (d *gobDecoder) ReadArrayStart() error {
	if _, err := d.next(); err != nil {
		return err
	}
	t, err := d.next()
	if err != nil {
		return err
	}
	d.arrayCount = append(d.arrayCount, t.N)
	return nil
}

func (d *gobDecoder) ArrayNext() (bool, error) {
	top := len(d.arrayCount) - 1
	if d.arrayCount[top] == 0 {
		d.arrayCount = d.arrayCount[:top]
		_, err := d.next() // array_end
		return false, err
	}
	d.arrayCount[top]--
	_, err := d.next() // start_item
	return true, err
}

func (d *gobDecoder) ReadMapStart() error { _, err := d.next(); return err }
func (d *gobDecoder) MapNext() (string, bool, error) {
	return "", false, nil
}
