package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type event struct {
	ID    uint64            `json:"id" msgpack:"id" cbor:"id"`
	Kind  string            `json:"kind" msgpack:"kind" cbor:"kind"`
	Tags  map[string]string `json:"tags" msgpack:"tags" cbor:"tags"`
	Score float64           `json:"score" msgpack:"score" cbor:"score"`
}

func sampleEvent() event {
	return event{
		ID:    42,
		Kind:  "put",
		Tags:  map[string]string{"z": "1", "a": "2", "m": "3", "b": "4", "y": "5"},
		Score: 0.5,
	}
}

func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()
	b, err := c.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func assertDeterministic[V any](t *testing.T, c Codec[V], v V) {
	t.Helper()
	first, err := c.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// maps iterate in random order; repeat enough to catch unsorted output
	for i := 0; i < 32; i++ {
		b, err := c.Encode(v)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !bytes.Equal(first, b) {
			t.Fatalf("non-deterministic encoding on iteration %d:\n%x\n%x", i, first, b)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "héllo wörld", "🔑"} {
		if got := roundTrip[string](t, String{}, s); got != s {
			t.Fatalf("got %q want %q", got, s)
		}
	}
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	_, err := String{}.Decode([]byte{0xff, 0xfe})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestStringEncodeRejectsInvalidUTF8(t *testing.T) {
	if _, err := (String{}).Encode("ok\xff"); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestBytesIdentity(t *testing.T) {
	in := []byte{0, 1, 2, 0xff}
	b, _ := Bytes{}.Encode(in)
	if !bytes.Equal(b, in) {
		t.Fatalf("encode changed bytes: %x", b)
	}
	out, _ := Bytes{}.Decode(b)
	if !bytes.Equal(out, in) {
		t.Fatalf("decode changed bytes: %x", out)
	}
}

func TestJSONRoundTripAndDeterminism(t *testing.T) {
	v := sampleEvent()
	if got := roundTrip[event](t, JSON[event]{}, v); !reflect.DeepEqual(got, v) {
		t.Fatalf("got %+v want %+v", got, v)
	}
	assertDeterministic[event](t, JSON[event]{}, v)
}

func TestJSONDecodeMalformed(t *testing.T) {
	if _, err := (JSON[event]{}).Decode([]byte(`{"id":`)); err == nil {
		t.Fatalf("expected error on truncated json")
	}
}

func TestMsgpackRoundTripAndDeterminism(t *testing.T) {
	v := sampleEvent()
	if got := roundTrip[event](t, Msgpack[event]{}, v); !reflect.DeepEqual(got, v) {
		t.Fatalf("got %+v want %+v", got, v)
	}
	assertDeterministic[event](t, Msgpack[event]{}, v)
	assertDeterministic[map[string]int](t, Msgpack[map[string]int]{}, map[string]int{"c": 3, "a": 1, "b": 2, "d": 4})
}

func TestCBORDeterministic(t *testing.T) {
	c := MustCBOR[event](true)
	v := sampleEvent()
	if got := roundTrip[event](t, c, v); !reflect.DeepEqual(got, v) {
		t.Fatalf("got %+v want %+v", got, v)
	}
	assertDeterministic[event](t, c, v)
}

func TestCBORTimeRoundTrip(t *testing.T) {
	type stamped struct {
		At time.Time `cbor:"at"`
	}
	c := MustCBOR[stamped](true)
	in := stamped{At: time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)}
	got := roundTrip[stamped](t, c, in)
	if !got.At.Equal(in.At) {
		t.Fatalf("time mismatch: got %v want %v", got.At, in.At)
	}
}

func TestCBORRejectsDuplicateMapKeys(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	// {"a": 1, "a": 2}
	dup := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	if _, err := c.Decode(dup); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestProtobufRoundTrip(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	in := wrapperspb.String("payload")
	got := roundTrip[*wrapperspb.StringValue](t, c, in)
	if !proto.Equal(got, in) {
		t.Fatalf("got %v want %v", got, in)
	}
	assertDeterministic[*wrapperspb.StringValue](t, c, in)
}

func TestProtobufDecodeMalformed(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	// field 1, wire type 2 (bytes), declared length 10, only 1 byte present
	if _, err := c.Decode([]byte{0x0a, 0x0a, 'x'}); err == nil {
		t.Fatalf("expected error on truncated message")
	}
}

func TestLimitEncode(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxEncode: 4}
	if _, err := c.Encode("abcd"); err != nil {
		t.Fatalf("boundary encode should succeed: %v", err)
	}
	_, err := c.Encode("abcde")
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestLimitDecode(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxDecode: 2}
	if _, err := c.Decode([]byte("abc")); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	got, err := c.Decode([]byte("ab"))
	if err != nil || got != "ab" {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestLimitDisabled(t *testing.T) {
	c := Limit[[]byte]{Inner: Bytes{}}
	big := bytes.Repeat([]byte("x"), 1<<16)
	if _, err := c.Encode(big); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Decode(big); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
