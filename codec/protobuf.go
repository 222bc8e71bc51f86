package codec

import "google.golang.org/protobuf/proto"

// Protobuf serializes proto.Message values. Decoding needs a fresh concrete
// message to unmarshal into, so the codec carries a constructor:
//
//	codec.NewProtobuf(func() *pb.User { return &pb.User{} })
type Protobuf[T proto.Message] struct {
	newMsg func() T
}

func NewProtobuf[T proto.Message](newMsg func() T) Protobuf[T] {
	return Protobuf[T]{newMsg: newMsg}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) { return proto.Marshal(v) }
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.newMsg()
	err := proto.Unmarshal(b, m)
	return m, err
}
