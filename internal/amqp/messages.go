package amqp

import (
	"encoding/json"
	"time"
)

// DocumentUpdatedMessage announces that the document stored under Key
// reached Revision. It carries no payload; consumers fetch the current
// blob from storage, so stale or duplicate messages are harmless.
type DocumentUpdatedMessage struct {
	Key       string    `json:"key"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDocumentUpdatedMessage(key string, revision int64) *DocumentUpdatedMessage {
	return &DocumentUpdatedMessage{
		Key:       key,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

func (m *DocumentUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DocumentUpdatedMessageFromJSON(data []byte) (*DocumentUpdatedMessage, error) {
	var msg DocumentUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
