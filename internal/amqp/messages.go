package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage asks the worker to mirror one ledger source record
// to the spreadsheet cashbook. It carries only the reference; the
// worker reads the current record from the store when it processes the
// message.
type EntrySyncMessage struct {
	SourceKind string    `json:"sourceKind"`
	SourceID   string    `json:"sourceId"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEntrySyncMessage creates a sync message for one source record.
func NewEntrySyncMessage(sourceKind, sourceID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		SourceKind: sourceKind,
		SourceID:   sourceID,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
