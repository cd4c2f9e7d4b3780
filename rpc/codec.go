package rpc

import (
	"fmt"

	"github.com/golang/protobuf/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Codec marshals the engine messages. It keeps the standard "proto"
// name so the content type on the wire is the usual one.
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, fmt.Errorf("rpc: cannot marshal %T", v)
	}
	b := proto.NewBuffer(nil)
	if err := m.encode(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(message)
	if !ok {
		return fmt.Errorf("rpc: cannot unmarshal into %T", v)
	}
	return m.decode(proto.NewBuffer(data))
}

// ServerOption and DialOption install Codec on either end.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodec(Codec{})
}

func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{}))
}
