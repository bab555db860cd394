// Package msg implements the cross-node messaging of a park cluster: the wire
// packets, the bus they travel over and its Redis and in-memory transports.
//
// Delivery is fire and forget. A published packet reaches the nodes that are
// subscribed at that moment and no acknowledgment is awaited; senders treat the
// bus as a best-effort cache sync, never as consensus.
package msg

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Topic is the logical channel every park node subscribes to.
const Topic = "all_parks"

// ErrUnknownPacket is returned when decoding a packet whose type tag is not
// registered.
var ErrUnknownPacket = errors.New("msg: unknown packet type")

// Packet is a message exchanged between park nodes.
type Packet interface {
	// PacketType returns the type tag carried in the wire envelope.
	PacketType() string
}

// UpdateQueuePacket propagates the open state of a virtual queue from its
// hosting node to the mirrors on every other node.
type UpdateQueuePacket struct {
	QueueID string `json:"queueId"`
	Open    bool   `json:"open"`
	// Reserved stays null on the wire, kept for future queue fields.
	Reserved json.RawMessage `json:"reserved"`
}

// PacketType ...
func (*UpdateQueuePacket) PacketType() string { return "update_queue" }

// AnnouncePacket carries a chat announcement to every node hosting the park
// named in it. An empty park addresses all of them.
type AnnouncePacket struct {
	Park    string `json:"park"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// PacketType ...
func (*AnnouncePacket) PacketType() string { return "announce" }

// envelope is the wire form of a packet: a type tag and the packet body.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var packetTypes = map[string]func() Packet{
	(*UpdateQueuePacket)(nil).PacketType(): func() Packet { return &UpdateQueuePacket{} },
	(*AnnouncePacket)(nil).PacketType():    func() Packet { return &AnnouncePacket{} },
}

// Marshal encodes a packet into its wire envelope.
func Marshal(pk Packet) ([]byte, error) {
	data, err := json.Marshal(pk)
	if err != nil {
		return nil, fmt.Errorf("encode %v packet: %w", pk.PacketType(), err)
	}
	b, err := json.Marshal(envelope{Type: pk.PacketType(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, nil
}

// Unmarshal decodes an enveloped packet. Packets of an unregistered type fail
// with ErrUnknownPacket.
func Unmarshal(b []byte) (Packet, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	create, ok := packetTypes[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPacket, env.Type)
	}
	pk := create()
	if err := json.Unmarshal(env.Data, pk); err != nil {
		return nil, fmt.Errorf("decode %v packet: %w", env.Type, err)
	}
	return pk, nil
}
