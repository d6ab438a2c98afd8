package status

import (
	"github.com/golang/protobuf/proto"
)

// Report mirrors message Report in report.proto.
type Report struct {
	Device          string `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Family          string `protobuf:"bytes,2,opt,name=family,proto3" json:"family,omitempty"`
	Frames          uint64 `protobuf:"varint,3,opt,name=frames,proto3" json:"frames,omitempty"`
	Discarded       uint64 `protobuf:"varint,4,opt,name=discarded,proto3" json:"discarded,omitempty"`
	Starved         uint64 `protobuf:"varint,5,opt,name=starved,proto3" json:"starved,omitempty"`
	Reserved        uint64 `protobuf:"varint,6,opt,name=reserved,proto3" json:"reserved,omitempty"`
	Unhandled       uint64 `protobuf:"varint,7,opt,name=unhandled,proto3" json:"unhandled,omitempty"`
	PulseMask       uint32 `protobuf:"varint,8,opt,name=pulse_mask,json=pulseMask,proto3" json:"pulse_mask,omitempty"`
	PulseActive     int32  `protobuf:"zigzag32,9,opt,name=pulse_active,json=pulseActive,proto3" json:"pulse_active,omitempty"`
	PulseDurationMs uint32 `protobuf:"varint,10,opt,name=pulse_duration_ms,json=pulseDurationMs,proto3" json:"pulse_duration_ms,omitempty"`
	UptimeMs        uint32 `protobuf:"varint,11,opt,name=uptime_ms,json=uptimeMs,proto3" json:"uptime_ms,omitempty"`
}

// NoPulse is PulseActive when no actuator is held.
const NoPulse int32 = -1

// Reset implements proto.Message.
func (m *Report) Reset() { *m = Report{} }

// String implements proto.Message.
func (m *Report) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Report) ProtoMessage() {}

// Reporter produces reports.
type Reporter interface {
	Report() *Report
}

// Encode serializes the report.
func (m *Report) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Decode parses a serialized report.
func Decode(data []byte) (*Report, error) {
	m := &Report{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
