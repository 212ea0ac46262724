package service

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/model"
	"arogya_backend/internal/repository"
	"arogya_backend/internal/util"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// SpeechClient is the narrow slice of the AI client the speech pipeline
// needs.
type SpeechClient interface {
	Transcribe(ctx context.Context, audioPath string) (text, language string, err error)
	Speak(ctx context.Context, text string) ([]byte, error)
}

// SpeechService converts between audio and text. Synthesized audio is
// cached on disk keyed by a hash of the text and voice, so repeated
// replies (greetings, follow-up questions) are served without another
// upstream call.
type SpeechService struct {
	ai     SpeechClient
	audit  *repository.AuditRepository
	cfg    *config.Config
	logger *zap.Logger
}

func NewSpeechService(ai SpeechClient, audit *repository.AuditRepository, cfg *config.Config, logger *zap.Logger) *SpeechService {
	return &SpeechService{ai: ai, audit: audit, cfg: cfg, logger: logger}
}

// Transcription is the result of one speech-to-text call.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe validates the uploaded file carries an audio stream, then
// sends it upstream.
func (s *SpeechService) Transcribe(ctx context.Context, userID uint, audioPath string) (*Transcription, error) {
	info, err := util.ProbeAudio(audioPath)
	if err != nil {
		return nil, errors.Join(util.ErrInvalidFormat, err)
	}
	if !info.HasAudio {
		return nil, util.ErrInvalidFormat
	}

	text, language, err := s.ai.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	if err := s.audit.Append(userID, model.AuditVoiceQuery, info.Format); err != nil {
		s.logger.Warn("audit append failed", zap.Error(err))
	}

	return &Transcription{Text: text, Language: language}, nil
}

// Synthesize returns the public URL of an mp3 for the text, generating it
// on a cache miss.
func (s *SpeechService) Synthesize(ctx context.Context, text string) (string, error) {
	name := speechCacheKey(text, s.cfg.AI.TTSVoice) + ".mp3"
	path := filepath.Join(s.cfg.Storage.AudioPath, name)

	if _, err := os.Stat(path); err == nil {
		return "/audio/" + name, nil
	}

	audio, err := s.ai.Speak(ctx, text)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.cfg.Storage.AudioPath, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, audio, 0644); err != nil {
		return "", err
	}

	return "/audio/" + name, nil
}

func speechCacheKey(text, voice string) string {
	sum := md5.Sum([]byte(voice + "|" + text))
	return hex.EncodeToString(sum[:])
}
