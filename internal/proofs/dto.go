package proofs

import (
	"io"
	"time"
)

// UploadInput carries the multipart form fields for a proof upload. Both the
// order id and the file must be present before any storage work happens.
type UploadInput struct {
	OrderID     int64
	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

// ProofDTO is the proof representation returned by the API.
type ProofDTO struct {
	OrderID    int64     `json:"order_id"`
	ProofURL   string    `json:"proof_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
