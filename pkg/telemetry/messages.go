package telemetry

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// TypeID masks
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
)

// TypeIDs of telemetry events.
const (
	TypeIDKindEvent uint32 = 0x80000000
	TypeIDGroup     uint32 = 0x00520000

	DisplayFrameTypeID = TypeIDKindEvent | TypeIDGroup | 0x0001
	StatusTypeID       = TypeIDKindEvent | TypeIDGroup | 0x0002
)

// Message is a telemetry message with a type ID.
type Message interface {
	proto.Message
	TypeID() uint32
}

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// MessageTypes creates empty messages by type ID.
var MessageTypes = map[uint32]func() Message{
	DisplayFrameTypeID: func() Message { return &DisplayFrame{} },
	StatusTypeID:       func() Message { return &Status{} },
}

// Typed wraps an encoded message with its type ID.
type Typed struct {
	TypeId  uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Message []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Typed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Typed) Reset() { *m = Typed{} }

// String implements proto.Message.
func (m *Typed) String() string { return proto.CompactTextString(m) }

// DisplayFrame is a snapshot of the rover display.
type DisplayFrame struct {
	Seq   uint32   `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Lines []string `protobuf:"bytes,2,rep,name=lines,proto3" json:"lines,omitempty"`
	Graph []byte   `protobuf:"bytes,3,opt,name=graph,proto3" json:"graph,omitempty"`
	Fresh uint32   `protobuf:"varint,4,opt,name=fresh,proto3" json:"fresh,omitempty"`
}

// TypeID implements Message.
func (m *DisplayFrame) TypeID() uint32 { return DisplayFrameTypeID }

// ProtoMessage implements proto.Message.
func (m *DisplayFrame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DisplayFrame) Reset() { *m = DisplayFrame{} }

// String implements proto.Message.
func (m *DisplayFrame) String() string { return proto.CompactTextString(m) }

// Status reports the presence of a rover. It's retained, and published
// as the will message when the rover goes away.
type Status struct {
	RoverId string `protobuf:"bytes,1,opt,name=rover_id,json=roverId,proto3" json:"rover_id,omitempty"`
	Online  bool   `protobuf:"varint,2,opt,name=online,proto3" json:"online,omitempty"`
	Walls   uint32 `protobuf:"varint,3,opt,name=walls,proto3" json:"walls,omitempty"`
}

// TypeID implements Message.
func (m *Status) TypeID() uint32 { return StatusTypeID }

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// Encode wraps msg in Typed and encodes it.
func Encode(msg Message) ([]byte, error) {
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(&Typed{TypeId: msg.TypeID(), Message: data})
}

// Decode decodes a Typed payload into the actual message.
func Decode(payload []byte) (Message, error) {
	var typed Typed
	if err := proto.Unmarshal(payload, &typed); err != nil {
		return nil, err
	}
	newMsg, ok := MessageTypes[typed.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: typed.TypeId}
	}
	msg := newMsg()
	if err := proto.Unmarshal(typed.Message, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
