package amqp

import (
	"encoding/json"
	"time"
)

// PurchaseSyncMessage is a lightweight notification that an item was purchased.
// It carries only the item ID; the worker fetches the full item from the
// database before exporting it.
type PurchaseSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPurchaseSyncMessage creates a new sync message for the given item ID
func NewPurchaseSyncMessage(id int64) *PurchaseSyncMessage {
	return &PurchaseSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PurchaseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PurchaseSyncMessageFromJSON creates a message from JSON bytes
func PurchaseSyncMessageFromJSON(data []byte) (*PurchaseSyncMessage, error) {
	var msg PurchaseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
