package input

import "encoding/binary"

// Event types and key-transition values from the evdev protocol.
const (
	EvKey = 0x01

	KeyReleased = 0
	KeyPressed  = 1
	KeyRepeated = 2
)

// eventSize is sizeof(struct input_event) on 64-bit kernels:
// 16 bytes of timestamp followed by type, code and value.
const eventSize = 24

// Event is one decoded input_event record.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// decodeEvents parses as many complete input_event records as buf contains.
// A trailing partial record is ignored; the kernel only delivers whole events.
func decodeEvents(buf []byte) []Event {
	n := len(buf) / eventSize
	if n == 0 {
		return nil
	}
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		rec := buf[i*eventSize : (i+1)*eventSize]
		events = append(events, Event{
			Type:  binary.LittleEndian.Uint16(rec[16:18]),
			Code:  binary.LittleEndian.Uint16(rec[18:20]),
			Value: int32(binary.LittleEndian.Uint32(rec[20:24])),
		})
	}
	return events
}
