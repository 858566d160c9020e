package bytecode

import (
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/Verseth/miniruby/ast"
)

func decodeHeader(t *testing.T, data []byte) wireHeader {
	t.Helper()
	var header wireHeader
	if err := cbor.Unmarshal(data, &header); err != nil {
		t.Fatal(err)
	}
	return header
}

func TestWire_RoundTrip(t *testing.T) {
	c := NewChunk("main", "main.rb", ast.Span{Start: 3, End: 9})
	c.Emit(OpTrue)
	c.AddValue(IntValue(3))
	c.AddValue(StringValue("hi"))
	c.AddValue(CallInfoValue("puts", 1))

	data, err := c.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := Deserialize(data)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Equal(restored) {
		t.Errorf("round-tripped chunk differs: got %+v, want %+v", restored, c)
	}
}

func TestWire_RoundTripPreservesSpanlessness(t *testing.T) {
	c := NewChunk("main", "main.rb", ast.Span{Start: 3, End: 9})
	data, _ := c.Serialize()
	restored, _ := Deserialize(data)
	if restored.Span != ast.ZeroSpan {
		t.Errorf("expected a deserialized chunk to have a zero span, got %v", restored.Span)
	}
}

func TestWire_RejectsBadMagic(t *testing.T) {
	_, err := Deserialize([]byte("not a chunk"))
	if err == nil {
		t.Fatal("expected an error deserializing non-chunk data")
	}
}

func TestWire_CompressesLargePayloads(t *testing.T) {
	c := NewChunk("main", "main.rb", ast.ZeroSpan)
	for i := 0; i < 100; i++ {
		c.AddValue(StringValue(strings.Repeat("x", 20) + string(rune('a'+i%26))))
	}
	data, err := c.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := Deserialize(data)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Equal(restored) {
		t.Error("expected a compressed round trip to still reproduce the chunk exactly")
	}
	if !decodeHeader(t, data).Compressed {
		t.Error("expected a payload over the compression threshold to be stored compressed")
	}
}

func TestWire_SmallPayloadsAreNotCompressed(t *testing.T) {
	c := NewChunk("m", "m.rb", ast.ZeroSpan)
	c.Emit(OpNoop)
	data, err := c.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := Deserialize(data)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Equal(restored) {
		t.Error("expected a small round trip to still reproduce the chunk exactly")
	}
	if decodeHeader(t, data).Compressed {
		t.Error("expected a payload under the compression threshold to be stored uncompressed")
	}
}
