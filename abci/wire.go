package abci

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodePayload serializes a Payload for transport by folding the
// whole envelope (sender, transaction type, attributes) into a
// structpb.Struct -- the protobuf runtime's built-in dynamic-value
// message, needing no .proto/protoc step of its own -- wrapped in an
// Any so the wire format stays extensible without a schema migration
// for every new attribute shape.
func EncodePayload(p Payload) ([]byte, error) {
	fields := make(map[string]any, len(p.Attributes)+2)
	fields["sender"] = p.Sender
	fields["transaction_type"] = string(p.TransactionType)
	if len(p.Attributes) > 0 {
		attrs := make(map[string]any, len(p.Attributes))
		for k, v := range p.Attributes {
			attrs[k] = v
		}
		fields["attributes"] = attrs
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	any, err := anypb.New(s)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(any)
}

// DecodePayload is the inverse of EncodePayload. EnvelopeID is not
// carried on the wire: the decoded payload is built with NewPayload and
// so gets a fresh EnvelopeID, the receiving replica treating it as a
// fresh submission for tracing purposes. Payload.Equal's identity rule
// (sender, transaction type, attributes) never considers EnvelopeID.
func DecodePayload(wireBytes []byte) (Payload, error) {
	var wrapped anypb.Any
	if err := proto.Unmarshal(wireBytes, &wrapped); err != nil {
		return Payload{}, err
	}
	msg, err := wrapped.UnmarshalNew()
	if err != nil {
		return Payload{}, err
	}
	s, ok := msg.(*structpb.Struct)
	if !ok {
		return Payload{}, errUnexpectedWireContent
	}
	fields := s.AsMap()
	sender, _ := fields["sender"].(string)
	txType, _ := fields["transaction_type"].(string)
	var attrs map[string]any
	if raw, ok := fields["attributes"].(map[string]any); ok {
		attrs = raw
	}
	return NewPayload(sender, TransactionType(txType), attrs), nil
}

var errUnexpectedWireContent = wireError("abci: wire content is not a structpb.Struct")

type wireError string

func (e wireError) Error() string { return string(e) }
