package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"arogya_backend/internal/util"
	"arogya_backend/pkg/logger"
	"arogya_backend/pkg/security"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DocQAService answers questions strictly from the user's own uploaded
// documents. Document text is decrypted per call, lives only in the prompt
// assembly below, and is discarded when Answer returns. It is never cached
// and never logged.
// DocumentFinder is the read side of document lookup the responders need.
type DocumentFinder interface {
	FindRecent(userID uint, n int) ([]model.MedicalDocument, error)
}

type DocQAService struct {
	docs   DocumentFinder
	llm    LLMClient
	cipher *security.FieldCipher
	chat   *config.ChatTunables
}

func NewDocQAService(docs DocumentFinder, llm LLMClient, cipher *security.FieldCipher, chat *config.ChatTunables) *DocQAService {
	return &DocQAService{
		docs:   docs,
		llm:    llm,
		cipher: cipher,
		chat:   chat,
	}
}

// Answer responds to a document-query intent. Excerpts are head-truncated
// to the configured size; only decrypted excerpts for the caller's own
// documents ever reach the prompt.
func (s *DocQAService) Answer(ctx context.Context, userID uint, question string, history []model.ChatMessage) (string, error) {
	chat := s.chat.Snapshot()
	docs, err := s.docs.FindRecent(userID, chat.MaxDocsPerQuery)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return noDocumentsReply, nil
	}

	var b strings.Builder
	usable := 0
	for _, d := range docs {
		text, err := s.decryptText(&d)
		if err != nil {
			// Fatal for this document only; the rest remain usable.
			logger.Log.Error("document decryption failed, skipping",
				zap.String("document", d.ID), zap.Error(err))
			continue
		}
		text = truncateUTF8(text, chat.DocExcerptChars)
		fmt.Fprintf(&b, "=== Document: %s (uploaded %s) ===\n%s\n\n",
			d.FileName, d.UploadedAt.Format("2006-01-02"), text)
		usable++
	}
	if usable == 0 {
		return noDocumentsReply, nil
	}

	turns := make([]Turn, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, Turn{Role: string(m.Role), Content: m.Content})
	}
	turns = append(turns, Turn{
		Role:    string(model.RoleUser),
		Content: fmt.Sprintf("Document excerpts:\n\n%s\nQuestion: %s", b.String(), question),
	})

	reply, err := s.llm.Chat(ctx, docQAPrompt, turns)
	if err != nil {
		return fallbackReply, nil
	}
	if containsTreatmentAdvice(reply) {
		logger.Log.Warn("document answer contained treatment advice, replaced")
		return treatmentDeflectionReply, nil
	}
	return reply, nil
}

// treatmentAdviceMarkers flag prescriptive language that the document
// responder must never emit; the prompt forbids it and this check enforces it.
var treatmentAdviceMarkers = []string{
	"you should take",
	"you should start",
	"you should stop",
	"start taking",
	"stop taking",
	"increase your dose",
	"decrease your dose",
	"i recommend taking",
	"i prescribe",
}

func containsTreatmentAdvice(reply string) bool {
	lower := strings.ToLower(reply)
	for _, m := range treatmentAdviceMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func (s *DocQAService) decryptText(d *model.MedicalDocument) (string, error) {
	if d.EncryptedText == "" {
		return "", util.ErrDecryptionFailure
	}
	text, err := s.cipher.Open(d.EncryptedText)
	if err != nil {
		return "", errors.Join(util.ErrDecryptionFailure, err)
	}
	return text, nil
}
