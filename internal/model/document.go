package model

import (
	"time"
)

// DocumentStatus is the terminal state of the upload pipeline.
type DocumentStatus string

const (
	DocumentProcessed DocumentStatus = "processed"
	DocumentFailed    DocumentStatus = "failed"
)

// MedicalDocument is one uploaded report or prescription. The raw extracted
// text is stored only in encrypted form (EncryptedText); it is decrypted
// transiently for document Q&A and must never be persisted or logged in
// plaintext. Analysis fields come from a one-shot LLM pass at upload time
// and are safe to show in listings.
type MedicalDocument struct {
	UUIDBase
	UserID     uint           `gorm:"index;not null" json:"userId"`
	FileName   string         `gorm:"size:255;not null" json:"fileName"`
	ObjectKey  string         `gorm:"size:255" json:"-"` // original PDF in object storage
	NumPages   int            `gorm:"default:0" json:"numPages"`
	Status     DocumentStatus `gorm:"type:enum('processed','failed');default:'processed'" json:"status"`
	Error      string         `gorm:"size:500" json:"error,omitempty"`
	UploadedAt time.Time      `gorm:"index" json:"uploadedAt"`

	// Encrypted full text: nonce||ciphertext, base64 in the column.
	EncryptedText string `gorm:"type:mediumtext" json:"-"`

	DocumentType    string `gorm:"size:100" json:"documentType"`
	Findings        JSON   `gorm:"type:json" json:"findings"`        // []string
	Medications     JSON   `gorm:"type:json" json:"medications"`     // []string
	Diagnoses       JSON   `gorm:"type:json" json:"diagnoses"`       // []string
	Recommendations JSON   `gorm:"type:json" json:"recommendations"` // []string
	KeyValues       JSON   `gorm:"type:json" json:"keyValues"`       // []TestResult
	Summary         string `gorm:"size:1000" json:"summary"`
}

func (MedicalDocument) TableName() string {
	return "medical_documents"
}

// TestResult is one structured measurement pulled from a report,
// e.g. {"test": "Hemoglobin", "value": "10.2", "unit": "g/dL", "status": "Low"}.
type TestResult struct {
	Test   string `json:"test"`
	Value  string `json:"value"`
	Unit   string `json:"unit"`
	Status string `json:"status"`
}

// DocumentSummary is the listing view: everything except the encrypted text.
type DocumentSummary struct {
	ID           string         `json:"id"`
	FileName     string         `json:"fileName"`
	UploadedAt   time.Time      `json:"uploadedAt"`
	Status       DocumentStatus `json:"status"`
	DocumentType string         `json:"documentType"`
	Summary      string         `json:"summary"`
	NumPages     int            `json:"numPages"`
}

// Summarize projects the listing view.
func (d *MedicalDocument) Summarize() DocumentSummary {
	return DocumentSummary{
		ID:           d.ID,
		FileName:     d.FileName,
		UploadedAt:   d.UploadedAt,
		Status:       d.Status,
		DocumentType: d.DocumentType,
		Summary:      d.Summary,
		NumPages:     d.NumPages,
	}
}
