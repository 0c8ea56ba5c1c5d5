package domain

import (
	"encoding/json"
	"strconv"
)

func encode(event string, data json.RawMessage) []byte {
	// Marshal cannot fail for a string and already-valid raw JSON.
	b, _ := json.Marshal(Message{Event: event, Data: data})
	return b
}

func DrawLineFrame(event DrawEvent) []byte {
	return encode(EventDrawLine, json.RawMessage(event))
}

func UserCountFrame(count int) []byte {
	return encode(EventUserCount, json.RawMessage(strconv.Itoa(count)))
}

// BufferedLinesFrame packs the backlog into a single frame so the client can
// tell history apart from live strokes. An empty backlog is sent as [].
func BufferedLinesFrame(events []DrawEvent) []byte {
	if events == nil {
		events = []DrawEvent{}
	}
	data, _ := json.Marshal(events)
	return encode(EventBufferedLines, data)
}
