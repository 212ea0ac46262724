package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// AdvisoryService answers everything that is neither a document query nor an
// in-progress symptom assessment: health advisories, AYUSH, yoga, mental
// wellness, government schemes, completed-assessment summaries and general
// chat. It assembles a composite context from the user profile, recent
// conversation and document summaries. Full document text never enters an
// advisory prompt; only the stored summaries do.
// ProfileSource provides the health profile injected into advisory
// prompts.
type ProfileSource interface {
	GetOrCreateProfile(userID uint) (*model.UserProfile, error)
}

type AdvisoryService struct {
	userRepo ProfileSource
	docRepo  DocumentFinder
	llm      LLMClient
	logger   *zap.Logger
	chat     *config.ChatTunables
}

func NewAdvisoryService(userRepo ProfileSource, docRepo DocumentFinder, llm LLMClient, logger *zap.Logger, chat *config.ChatTunables) *AdvisoryService {
	return &AdvisoryService{
		userRepo: userRepo,
		docRepo:  docRepo,
		llm:      llm,
		logger:   logger,
		chat:     chat,
	}
}

// Respond generates an advisory reply for the classified intent. assessment
// may be non-nil when a symptom assessment just completed; its collected
// slots are folded into the prompt so the wrap-up advice is specific.
func (s *AdvisoryService) Respond(ctx context.Context, userID uint, intent model.Intent, message string, history []model.ChatMessage, assessment *model.AssessmentState) string {
	system := s.buildSystemPrompt(userID, intent, assessment)

	turns := make([]Turn, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, Turn{Role: string(m.Role), Content: m.Content})
	}
	turns = append(turns, Turn{Role: string(model.RoleUser), Content: message})

	reply, err := s.llm.Chat(ctx, system, turns)
	if err != nil {
		s.logger.Warn("advisory generation failed",
			zap.String("intent", string(intent)),
			zap.Error(err))
		return fallbackReply
	}
	return reply
}

func (s *AdvisoryService) buildSystemPrompt(userID uint, intent model.Intent, assessment *model.AssessmentState) string {
	var b strings.Builder
	b.WriteString(advisoryBasePrompt)

	switch intent {
	case model.IntentSymptomChecker:
		b.WriteString(advisorySymptom)
	case model.IntentAyushSupport:
		b.WriteString(advisoryAyush)
	case model.IntentYogaSupport:
		b.WriteString(advisoryYoga)
	case model.IntentMentalWellness:
		b.WriteString(advisoryMentalWellness)
	case model.IntentHealthAdvisory:
		b.WriteString(advisoryHealthAdvisory)
	case model.IntentGovernmentScheme:
		b.WriteString(advisoryGovernmentScheme)
	default:
		b.WriteString(advisoryGeneral)
	}

	if profile := s.profileContext(userID); profile != "" {
		b.WriteString("\n\nUser profile:\n")
		b.WriteString(profile)
	}

	if assessment != nil {
		b.WriteString("\n\nCompleted symptom assessment:\n")
		b.WriteString(assessmentContext(assessment))
	}

	if docs := s.documentContext(userID); docs != "" {
		b.WriteString("\n\nThe user has uploaded medical documents (summaries only):\n")
		b.WriteString(docs)
	}

	return b.String()
}

// profileContext renders the filled profile fields. A fresh profile with no
// data contributes nothing.
func (s *AdvisoryService) profileContext(userID uint) string {
	profile, err := s.userRepo.GetOrCreateProfile(userID)
	if err != nil {
		return ""
	}

	var lines []string
	if profile.Age > 0 {
		lines = append(lines, fmt.Sprintf("- Age: %d", profile.Age))
	}
	if profile.Gender != "" {
		lines = append(lines, "- Gender: "+profile.Gender)
	}
	if profile.MedicalHistory != "" {
		lines = append(lines, "- Medical history: "+profile.MedicalHistory)
	}
	if profile.Allergies != "" {
		lines = append(lines, "- Allergies: "+profile.Allergies)
	}
	if profile.Medications != "" {
		lines = append(lines, "- Current medications: "+profile.Medications)
	}
	return strings.Join(lines, "\n")
}

// documentContext lists one line per recent processed document. Encrypted
// full text is deliberately absent here; document questions go through the
// document responder instead.
func (s *AdvisoryService) documentContext(userID uint) string {
	docs, err := s.docRepo.FindRecent(userID, s.chat.Snapshot().MaxDocsPerQuery)
	if err != nil || len(docs) == 0 {
		return ""
	}

	var lines []string
	for _, d := range docs {
		line := "- " + d.FileName
		if d.DocumentType != "" {
			line += " (" + d.DocumentType + ")"
		}
		if d.Summary != "" {
			line += ": " + d.Summary
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func assessmentContext(a *model.AssessmentState) string {
	var lines []string
	if a.Symptom != "" {
		lines = append(lines, "- Symptom: "+a.Symptom)
	}
	if a.Severity != "" {
		lines = append(lines, "- Severity: "+a.Severity)
	}
	if a.Duration != "" {
		lines = append(lines, "- Duration: "+a.Duration)
	}
	if a.Location != "" {
		lines = append(lines, "- Location: "+a.Location)
	}
	if a.Context != "" {
		lines = append(lines, "- Context: "+a.Context)
	}
	if len(lines) == 0 {
		return "- No details could be collected."
	}
	return strings.Join(lines, "\n")
}
