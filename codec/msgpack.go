package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/GrayHat12/pykachu/ir"
)

// EncodeMsgpack returns the MessagePack encoding of v. Mappings are
// written pairwise in key order, which MessagePack maps preserve.
func EncodeMsgpack(v ir.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := writeMsgpack(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMsgpack(enc *msgpack.Encoder, v ir.Value) error {
	switch val := v.(type) {
	case nil, ir.Null:
		return enc.EncodeNil()
	case ir.Bool:
		return enc.EncodeBool(bool(val))
	case ir.Int:
		return enc.EncodeInt64(int64(val))
	case ir.Uint:
		return enc.EncodeUint64(uint64(val))
	case ir.Float:
		return enc.EncodeFloat64(float64(val))
	case ir.String:
		return enc.EncodeString(string(val))
	case ir.Sequence:
		if err := enc.EncodeArrayLen(len(val)); err != nil {
			return err
		}
		for _, elem := range val {
			if err := writeMsgpack(enc, elem); err != nil {
				return err
			}
		}
		return nil
	case *ir.Mapping:
		if err := enc.EncodeMapLen(val.Len()); err != nil {
			return err
		}
		for k, mv := range val.All() {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := writeMsgpack(enc, mv); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown IR value %T", v)
}

// DecodeMsgpack parses MessagePack data into an IR value, map key order
// preserved.
func DecodeMsgpack(data []byte) (ir.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	return readMsgpack(dec)
}

func readMsgpack(dec *msgpack.Decoder) (ir.Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case code == msgpcode.Nil:
		return ir.Null{}, dec.DecodeNil()
	case code == msgpcode.True, code == msgpcode.False:
		b, err := dec.DecodeBool()
		return ir.Bool(b), err
	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16,
		code == msgpcode.Int32, code == msgpcode.Int64:
		i, err := dec.DecodeInt64()
		return ir.Int(i), err
	case code == msgpcode.Uint8, code == msgpcode.Uint16,
		code == msgpcode.Uint32, code == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		return ir.Uint(u), err
	case code == msgpcode.Float, code == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		return ir.Float(f), err
	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		return ir.String(s), err
	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		seq := make(ir.Sequence, 0, n)
		for range n {
			elem, err := readMsgpack(dec)
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		return seq, nil
	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		m := ir.NewMapping()
		for range n {
			k, err := dec.DecodeString()
			if err != nil {
				return nil, err
			}
			v, err := readMsgpack(dec)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported msgpack code %#x", code)
}
