package core

// Hand-written MUS serializers for the persisted domain types.
// The wire format is the standard mus-go encoding: varint integers,
// length-prefixed strings, slices, and maps, timestamps as UnixMicro.

import (
	"time"

	muss "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	// IDMUS serializes ID values.
	IDMUS = idMUS{}
	// MessageRoleMUS serializes MessageRole values.
	MessageRoleMUS = messageRoleMUS{}
	// ChatMessageMUS serializes ChatMessage values.
	ChatMessageMUS = chatMessageMUS{}
	// NodeMUS serializes Node values.
	NodeMUS = nodeMUS{}
)

var (
	_ muss.Serializer[ID]          = IDMUS
	_ muss.Serializer[MessageRole] = MessageRoleMUS
	_ muss.Serializer[ChatMessage] = ChatMessageMUS
	_ muss.Serializer[Node]        = NodeMUS
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type messageRoleMUS struct{}

func (s messageRoleMUS) Marshal(v MessageRole, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s messageRoleMUS) Unmarshal(bs []byte) (v MessageRole, n int, err error) {
	i, n, err := varint.Int.Unmarshal(bs)
	return MessageRole(i), n, err
}

func (s messageRoleMUS) Size(v MessageRole) (size int) {
	return varint.Int.Size(int(v))
}

func (s messageRoleMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

type chatMessageMUS struct{}

func (s chatMessageMUS) Marshal(v ChatMessage, bs []byte) (n int) {
	n = MessageRoleMUS.Marshal(v.Role, bs)
	n += ord.String.Marshal(v.Content, bs[n:])
	return n
}

func (s chatMessageMUS) Unmarshal(bs []byte) (v ChatMessage, n int, err error) {
	v.Role, n, err = MessageRoleMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chatMessageMUS) Size(v ChatMessage) (size int) {
	return MessageRoleMUS.Size(v.Role) + ord.String.Size(v.Content)
}

func (s chatMessageMUS) Skip(bs []byte) (n int, err error) {
	n, err = MessageRoleMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

type nodeMUS struct{}

func (s nodeMUS) Marshal(v Node, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(len(v.Metadata), bs[n:])
	for k, val := range v.Metadata {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(val, bs[n:])
	}
	n += varint.Int.Marshal(len(v.Vector), bs[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (s nodeMUS) Unmarshal(bs []byte) (v Node, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		v.Metadata = make(map[string]string, count)
		for i := 0; i < count; i++ {
			var k, val string
			k, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			val, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			v.Metadata[k] = val
		}
	}
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		v.Vector = make([]float32, count)
		for i := 0; i < count; i++ {
			v.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s nodeMUS) Size(v Node) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Text)
	size += varint.Int.Size(len(v.Metadata))
	for k, val := range v.Metadata {
		size += ord.String.Size(k)
		size += ord.String.Size(val)
	}
	size += varint.Int.Size(len(v.Vector))
	for _, f := range v.Vector {
		size += raw.Float32.Size(f)
	}
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return size
}

func (s nodeMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
