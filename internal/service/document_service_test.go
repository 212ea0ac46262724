package service

import (
	"arogya_backend/internal/model"
	"arogya_backend/internal/util"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRejectsNonPDF(t *testing.T) {
	svc := NewDocumentService(nil, nil, nil, nil, nil)

	tests := []struct {
		name     string
		fileName string
		data     []byte
	}{
		{"wrong extension", "report.docx", []byte("%PDF-1.4 content")},
		{"spoofed extension", "report.pdf", []byte("MZplain old exe")},
		{"empty file", "report.pdf", nil},
		{"text file", "notes.txt", []byte("my symptoms")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), 1, tt.fileName, tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, util.ErrInvalidFormat)
		})
	}
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("report.pdf", []byte("%PDF-1.7\n...")))
	assert.True(t, isPDF("REPORT.PDF", []byte("%PDF-1.4\n...")))
	assert.False(t, isPDF("report.pdf.txt", []byte("%PDF-1.4")))
	assert.False(t, isPDF("report.pdf", []byte("%PDX")))
}

func TestAnalyzeFillsStructuredFields(t *testing.T) {
	llm := &fakeLLM{genericJSON: `{
		"document_type": "Lab Report",
		"findings": ["Low hemoglobin"],
		"medications": [],
		"diagnoses": ["Mild anemia"],
		"recommendations": ["Repeat CBC in 3 months"],
		"test_results": [{"test": "Hemoglobin", "value": "10.2", "unit": "g/dL", "status": "Low"}],
		"summary": "CBC showing mild anemia."
	}`}
	svc := &DocumentService{llm: llm}

	doc := &model.MedicalDocument{}
	svc.analyze(context.Background(), doc, "Hemoglobin: 10.2 g/dL (Low)")

	assert.Equal(t, "Lab Report", doc.DocumentType)
	assert.Equal(t, "CBC showing mild anemia.", doc.Summary)
	assert.Contains(t, string(doc.KeyValues), "Hemoglobin")
}

func TestAnalyzeDegradesOnUpstreamFailure(t *testing.T) {
	llm := &fakeLLM{genericErr: errors.New("timeout")}
	svc := &DocumentService{llm: llm}

	doc := &model.MedicalDocument{}
	svc.analyze(context.Background(), doc, "some extracted text")

	assert.Contains(t, doc.Summary, "Analysis pending")
	assert.Empty(t, doc.DocumentType)
}
