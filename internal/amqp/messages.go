package amqp

import (
	"encoding/json"
	"time"
)

// ExtractionJobMessage represents a lightweight message for extracting an uploaded invoice file
// Contains only the file references, the worker reads the stored file from disk
type ExtractionJobMessage struct {
	Filename   string    `json:"filename"`
	StoredPath string    `json:"stored_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewExtractionJobMessage creates a new extraction job message for an uploaded file
func NewExtractionJobMessage(filename, storedPath string) *ExtractionJobMessage {
	return &ExtractionJobMessage{
		Filename:   filename,
		StoredPath: storedPath,
		UploadedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExtractionJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func ExtractionJobMessageFromJSON(data []byte) (*ExtractionJobMessage, error) {
	var msg ExtractionJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
