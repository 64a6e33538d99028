package pb

import "google.golang.org/protobuf/encoding/protowire"

// Field append helpers. Zero values are elided the way proto3
// serializers do; unknown fields are skipped on decode.

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// eachField walks a wire-format buffer and hands every field's raw
// value to fn. Fields fn does not recognize are ignored, which keeps
// decoding forward-compatible.
func eachField(data []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		var v []byte
		switch typ {
		case protowire.VarintType:
			_, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			v, data = data[:m], data[m:]
		case protowire.Fixed32Type:
			_, m := protowire.ConsumeFixed32(data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			v, data = data[:m], data[m:]
		case protowire.Fixed64Type:
			_, m := protowire.ConsumeFixed64(data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			v, data = data[:m], data[m:]
		case protowire.BytesType:
			payload, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			v, data = payload, data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			data = data[m:]
			continue
		}

		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}

func asVarint(v []byte) (uint64, error) {
	u, n := protowire.ConsumeVarint(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return u, nil
}

func asString(v []byte, dst *string) error {
	*dst = string(v)
	return nil
}
