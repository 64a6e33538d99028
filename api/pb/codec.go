package pb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Message is implemented by every wire type in this package.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(data []byte) error
}

// Codec carries pb messages over gRPC without protoc-generated code.
// The server installs it with grpc.ForceServerCodec; clients pass
// grpc.ForceCodec per call (NewOrderServiceClient does this).
type Codec struct{}

const CodecName = "vidar-wire"

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("pb: cannot marshal %T", v)
	}
	return m.MarshalWire(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("pb: cannot unmarshal into %T", v)
	}
	return m.UnmarshalWire(data)
}

func init() {
	encoding.RegisterCodec(Codec{})
}
