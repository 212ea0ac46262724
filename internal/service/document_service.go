package service

import (
	"arogya_backend/internal/model"
	"arogya_backend/internal/repository"
	"arogya_backend/internal/util"
	"arogya_backend/pkg/logger"
	"arogya_backend/pkg/security"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// analysisInputChars caps the text handed to the analyzer at upload time.
const analysisInputChars = 2000

// DocumentService runs the upload pipeline: validate PDF, extract text,
// analyze with the model, encrypt the full text, store the original bytes,
// persist the record. It also serves list and delete.
type DocumentService struct {
	docs    *repository.DocumentRepository
	audit   *repository.AuditRepository
	storage *StorageService
	llm     LLMClient
	cipher  *security.FieldCipher
}

func NewDocumentService(docs *repository.DocumentRepository, audit *repository.AuditRepository, storage *StorageService, llm LLMClient, cipher *security.FieldCipher) *DocumentService {
	return &DocumentService{
		docs:    docs,
		audit:   audit,
		storage: storage,
		llm:     llm,
		cipher:  cipher,
	}
}

// Upload processes one uploaded file. Non-PDF payloads are rejected before
// anything is persisted.
func (s *DocumentService) Upload(ctx context.Context, userID uint, fileName string, fileBytes []byte) (*model.DocumentSummary, error) {
	if !isPDF(fileName, fileBytes) {
		return nil, util.ErrInvalidFormat
	}

	text, numPages, err := extractPDFText(fileBytes)
	if err != nil {
		// Unreadable PDFs are recorded as failed so the user sees why the
		// document never answers questions.
		doc := &model.MedicalDocument{
			UserID:     userID,
			FileName:   fileName,
			Status:     model.DocumentFailed,
			Error:      fmt.Sprintf("text extraction failed: %v", err),
			UploadedAt: time.Now(),
		}
		if createErr := s.docs.Create(doc); createErr != nil {
			return nil, createErr
		}
		summary := doc.Summarize()
		return &summary, nil
	}

	encrypted, err := s.cipher.Seal(text)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("documents/%d/%s%s", userID, uuid.New().String(), filepath.Ext(fileName))
	if _, err := s.storage.Upload(ctx, objectKey, bytes.NewReader(fileBytes), int64(len(fileBytes)), "application/pdf"); err != nil {
		return nil, err
	}

	doc := &model.MedicalDocument{
		UserID:        userID,
		FileName:      fileName,
		ObjectKey:     objectKey,
		NumPages:      numPages,
		Status:        model.DocumentProcessed,
		UploadedAt:    time.Now(),
		EncryptedText: encrypted,
	}
	s.analyze(ctx, doc, text)

	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}

	if err := s.audit.Append(userID, model.AuditUploadDocument, fmt.Sprintf("Uploaded document %s (%s)", doc.ID, fileName)); err != nil {
		logger.Log.Warn("audit append failed", zap.Error(err))
	}

	summary := doc.Summarize()
	return &summary, nil
}

// analyze fills the structured analysis fields. Failure degrades to a
// pending summary; the document is still processed and queryable.
func (s *DocumentService) analyze(ctx context.Context, doc *model.MedicalDocument, text string) {
	input := truncateUTF8(text, analysisInputChars)

	raw, err := s.llm.ChatJSON(ctx, documentAnalysisPrompt, "Analyze this medical document briefly:\n\n"+input)
	if err != nil {
		logger.Log.Warn("document analysis failed, storing without analysis", zap.Error(err))
		doc.Summary = fmt.Sprintf("Document uploaded (%d characters). Analysis pending.", len(text))
		return
	}

	var parsed struct {
		DocumentType    string             `json:"document_type"`
		Findings        []string           `json:"findings"`
		Medications     []string           `json:"medications"`
		Diagnoses       []string           `json:"diagnoses"`
		Recommendations []string           `json:"recommendations"`
		TestResults     []model.TestResult `json:"test_results"`
		Summary         string             `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Log.Warn("document analysis unparsable, storing without analysis", zap.Error(err))
		doc.Summary = fmt.Sprintf("Document uploaded (%d characters). Analysis pending.", len(text))
		return
	}

	doc.DocumentType = parsed.DocumentType
	doc.Findings = model.MustJSON(parsed.Findings)
	doc.Medications = model.MustJSON(parsed.Medications)
	doc.Diagnoses = model.MustJSON(parsed.Diagnoses)
	doc.Recommendations = model.MustJSON(parsed.Recommendations)
	doc.KeyValues = model.MustJSON(parsed.TestResults)
	doc.Summary = parsed.Summary
}

// List returns one page of the user's document summaries, most recent
// first. The order is deterministic: repeated calls without an intervening
// upload or delete return the identical page.
func (s *DocumentService) List(userID uint, page, limit int) (*util.PageResponse, error) {
	docs, total, err := s.docs.FindByUserPage(userID, page, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, d.Summarize())
	}
	return &util.PageResponse{List: summaries, Total: total, Page: page, Limit: limit}, nil
}

// Delete removes a document and its stored bytes. Access violations are
// audited as security events before the error surfaces.
func (s *DocumentService) Delete(ctx context.Context, userID uint, docID string) error {
	doc, err := s.docs.FindOwned(userID, docID)
	if err != nil {
		if err == util.ErrForbidden {
			if auditErr := s.audit.Append(userID, model.AuditAccessDenied, fmt.Sprintf("Delete denied for document %s", docID)); auditErr != nil {
				logger.Log.Warn("audit append failed", zap.Error(auditErr))
			}
		}
		return err
	}

	if doc.ObjectKey != "" {
		if err := s.storage.Delete(ctx, doc.ObjectKey); err != nil {
			logger.Log.Warn("failed to delete stored object", zap.String("key", doc.ObjectKey), zap.Error(err))
		}
	}

	if err := s.docs.Delete(userID, docID); err != nil {
		return err
	}
	if err := s.audit.Append(userID, model.AuditDeleteDocument, fmt.Sprintf("Deleted document %s", docID)); err != nil {
		logger.Log.Warn("audit append failed", zap.Error(err))
	}
	return nil
}

// isPDF checks both the extension and the %PDF magic header; either alone
// is spoofable from a browser form.
func isPDF(fileName string, data []byte) bool {
	if strings.ToLower(filepath.Ext(fileName)) != ".pdf" {
		return false
	}
	return len(data) >= 5 && bytes.HasPrefix(data, []byte("%PDF-"))
}

// extractPDFText pulls plain text from every page.
func extractPDFText(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}

	numPages := reader.NumPage()
	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", numPages, fmt.Errorf("no extractable text in document")
	}
	return text, numPages, nil
}
