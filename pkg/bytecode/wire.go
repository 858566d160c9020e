package bytecode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
)

// wireMagic tags the outermost envelope so Deserialize can reject
// data that isn't a serialized chunk before it ever reaches CBOR.
const wireMagic = "MINIRUBY1"

// compressThreshold is the encoded-payload size above which
// compression is attempted; below it the flate framing overhead isn't
// worth paying.
const compressThreshold = 512

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type wireHeader struct {
	Magic      string `cbor:"1,keyasint"`
	ID         string `cbor:"2,keyasint"` // fresh uuid per Serialize call, for cache-busting
	Compressed bool   `cbor:"3,keyasint"`
	Payload    []byte `cbor:"4,keyasint"`
}

type wireChunk struct {
	Name      string      `cbor:"1,keyasint"`
	Filename  string      `cbor:"2,keyasint"`
	Code      []byte      `cbor:"3,keyasint"`
	ValuePool []wireValue `cbor:"4,keyasint"`
}

type wireValue struct {
	Kind     ValueKind `cbor:"1,keyasint"`
	Int      int64     `cbor:"2,keyasint,omitempty"`
	Float    float64   `cbor:"3,keyasint,omitempty"`
	Bool     bool      `cbor:"4,keyasint,omitempty"`
	Str      string    `cbor:"5,keyasint,omitempty"`
	CallName string    `cbor:"6,keyasint,omitempty"`
	CallArgc int       `cbor:"7,keyasint,omitempty"`
}

func toWireValue(v Value) wireValue {
	wv := wireValue{Kind: v.Kind, Int: v.Int, Float: v.Float, Bool: v.Bool, Str: v.Str}
	if v.Kind == KindCallInfo {
		wv.CallName = v.CallInfo.Name
		wv.CallArgc = v.CallInfo.ArgCount
	}
	return wv
}

func fromWireValue(wv wireValue) Value {
	v := Value{Kind: wv.Kind, Int: wv.Int, Float: wv.Float, Bool: wv.Bool, Str: wv.Str}
	if wv.Kind == KindCallInfo {
		v.CallInfo = CallInfo{Name: wv.CallName, ArgCount: wv.CallArgc}
	}
	return v
}

// Serialize encodes the chunk's instruction stream and value pool
// (spans are not part of the wire format; a deserialized chunk has
// zero spans throughout) to CBOR, compressing the payload with flate
// when it's large enough to be worth it, and wraps the result in a
// header carrying a fresh UUID so callers can cache-bust stored
// chunks keyed by that ID.
func (c *Chunk) Serialize() ([]byte, error) {
	wc := wireChunk{Name: c.Name, Filename: c.Filename, Code: c.Code}
	for _, v := range c.ValuePool {
		wc.ValuePool = append(wc.ValuePool, toWireValue(v))
	}

	payload, err := cborEncMode.Marshal(wc)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal chunk: %w", err)
	}

	compressed := false
	if len(payload) > compressThreshold {
		var buf bytes.Buffer
		fw, ferr := flate.NewWriter(&buf, flate.BestSpeed)
		if ferr == nil {
			if _, werr := fw.Write(payload); werr == nil {
				if cerr := fw.Close(); cerr == nil && buf.Len() < len(payload) {
					payload = buf.Bytes()
					compressed = true
				}
			}
		}
	}

	header := wireHeader{
		Magic:      wireMagic,
		ID:         uuid.NewString(),
		Compressed: compressed,
		Payload:    payload,
	}
	out, err := cborEncMode.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal header: %w", err)
	}
	return out, nil
}

// Deserialize decodes a chunk previously produced by Serialize.
func Deserialize(data []byte) (*Chunk, error) {
	var header wireHeader
	if err := cbor.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal header: %w", err)
	}
	if header.Magic != wireMagic {
		return nil, fmt.Errorf("bytecode: not a chunk: bad magic %q", header.Magic)
	}

	payload := header.Payload
	if header.Compressed {
		fr := flate.NewReader(bytes.NewReader(payload))
		defer fr.Close()
		decompressed, err := io.ReadAll(fr)
		if err != nil {
			return nil, fmt.Errorf("bytecode: decompress payload: %w", err)
		}
		payload = decompressed
	}

	var wc wireChunk
	if err := cbor.Unmarshal(payload, &wc); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal chunk: %w", err)
	}

	c := &Chunk{Name: wc.Name, Filename: wc.Filename, Code: wc.Code}
	for _, wv := range wc.ValuePool {
		c.ValuePool = append(c.ValuePool, fromWireValue(wv))
	}
	return c, nil
}
