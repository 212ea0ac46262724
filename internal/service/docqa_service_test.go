package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"arogya_backend/pkg/security"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocKey = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func newDocQAService(t *testing.T, docs []model.MedicalDocument, llm LLMClient) (*DocQAService, *security.FieldCipher) {
	t.Helper()
	cipher, err := security.NewFieldCipher(testDocKey)
	require.NoError(t, err)

	chat := config.NewChatTunables(config.ChatConfig{DocExcerptChars: 2000, MaxDocsPerQuery: 5})
	return NewDocQAService(&fakeDocFinder{docs: docs}, llm, cipher, chat), cipher
}

func sealedDoc(t *testing.T, cipher *security.FieldCipher, name, text string) model.MedicalDocument {
	t.Helper()
	sealed, err := cipher.Seal(text)
	require.NoError(t, err)

	return model.MedicalDocument{
		UUIDBase:      model.UUIDBase{ID: name},
		FileName:      name,
		Status:        model.DocumentProcessed,
		UploadedAt:    time.Now(),
		EncryptedText: sealed,
	}
}

func TestAnswerWithoutDocuments(t *testing.T) {
	llm := &fakeLLM{chatReply: "should never be used"}
	svc, _ := newDocQAService(t, nil, llm)

	reply, err := svc.Answer(context.Background(), 1, "what were my test results?", nil)
	require.NoError(t, err)

	assert.Equal(t, noDocumentsReply, reply)
	assert.Empty(t, llm.chatCalls)
}

func TestAnswerGroundsPromptInDecryptedExcerpts(t *testing.T) {
	llm := &fakeLLM{chatReply: "Your hemoglobin was 10.2 g/dL, which is marked Low in blood_report.pdf."}
	cipher, err := security.NewFieldCipher(testDocKey)
	require.NoError(t, err)

	doc := sealedDoc(t, cipher, "blood_report.pdf", "CBC Report. Hemoglobin: 10.2 g/dL (Low). WBC: 6.1.")
	chat := config.NewChatTunables(config.ChatConfig{DocExcerptChars: 2000, MaxDocsPerQuery: 5})
	svc := NewDocQAService(&fakeDocFinder{docs: []model.MedicalDocument{doc}}, llm, cipher, chat)

	reply, err := svc.Answer(context.Background(), 1, "what was my hemoglobin?", nil)
	require.NoError(t, err)

	assert.Contains(t, reply, "10.2")
	assert.Contains(t, llm.lastUser, "Hemoglobin: 10.2 g/dL")
	assert.Contains(t, llm.lastUser, "blood_report.pdf")
}

func TestAnswerTruncatesLongExcerpts(t *testing.T) {
	llm := &fakeLLM{chatReply: "answer"}
	cipher, err := security.NewFieldCipher(testDocKey)
	require.NoError(t, err)

	long := strings.Repeat("a", 2000) + "OVERFLOW"
	doc := sealedDoc(t, cipher, "big.pdf", long)
	chat := config.NewChatTunables(config.ChatConfig{DocExcerptChars: 2000, MaxDocsPerQuery: 5})
	svc := NewDocQAService(&fakeDocFinder{docs: []model.MedicalDocument{doc}}, llm, cipher, chat)

	_, err = svc.Answer(context.Background(), 1, "summarize", nil)
	require.NoError(t, err)

	assert.NotContains(t, llm.lastUser, "OVERFLOW")
}

func TestAnswerSkipsUndecryptableDocument(t *testing.T) {
	llm := &fakeLLM{chatReply: "answer"}
	cipher, err := security.NewFieldCipher(testDocKey)
	require.NoError(t, err)

	good := sealedDoc(t, cipher, "good.pdf", "Prescription: Paracetamol 500mg.")
	bad := model.MedicalDocument{
		UUIDBase:      model.UUIDBase{ID: "bad.pdf"},
		FileName:      "bad.pdf",
		Status:        model.DocumentProcessed,
		UploadedAt:    time.Now(),
		EncryptedText: "not-a-valid-ciphertext",
	}

	chat := config.NewChatTunables(config.ChatConfig{DocExcerptChars: 2000, MaxDocsPerQuery: 5})
	svc := NewDocQAService(&fakeDocFinder{docs: []model.MedicalDocument{bad, good}}, llm, cipher, chat)

	reply, err := svc.Answer(context.Background(), 1, "what medication am I on?", nil)
	require.NoError(t, err)

	assert.Equal(t, "answer", reply)
	assert.Contains(t, llm.lastUser, "good.pdf")
	assert.NotContains(t, llm.lastUser, "bad.pdf")
}

func TestAnswerAllDocumentsUndecryptable(t *testing.T) {
	llm := &fakeLLM{chatReply: "should never be used"}
	bad := model.MedicalDocument{
		UUIDBase:      model.UUIDBase{ID: "bad.pdf"},
		FileName:      "bad.pdf",
		Status:        model.DocumentProcessed,
		UploadedAt:    time.Now(),
		EncryptedText: "garbage",
	}
	svc, _ := newDocQAService(t, []model.MedicalDocument{bad}, llm)

	reply, err := svc.Answer(context.Background(), 1, "anything?", nil)
	require.NoError(t, err)

	assert.Equal(t, noDocumentsReply, reply)
	assert.Empty(t, llm.chatCalls)
}

func TestAnswerReplacesTreatmentAdvice(t *testing.T) {
	llm := &fakeLLM{chatReply: "Your hemoglobin is low. You should start taking iron supplements twice a day."}
	cipher, err := security.NewFieldCipher(testDocKey)
	require.NoError(t, err)

	doc := sealedDoc(t, cipher, "blood_report.pdf", "Hemoglobin: 10.2 g/dL (Low).")
	svc, _ := newDocQAService(t, []model.MedicalDocument{doc}, llm)

	reply, err := svc.Answer(context.Background(), 1, "what should I do about it?", nil)
	require.NoError(t, err)
	assert.Equal(t, treatmentDeflectionReply, reply)
}

func TestContainsTreatmentAdvice(t *testing.T) {
	assert.True(t, containsTreatmentAdvice("You should STOP taking this medicine."))
	assert.False(t, containsTreatmentAdvice("Your report lists metformin among current medications."))
}
