package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// AuditLog is an append-only, hash-chained record of security-relevant
// events. Each entry hashes its own fields plus the previous entry's hash,
// so after-the-fact tampering with a row breaks the chain.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index" json:"userId"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Detail    string    `gorm:"size:500" json:"detail"`
	PrevHash  string    `gorm:"size:64" json:"prevHash"`
	Hash      string    `gorm:"size:64" json:"hash"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit event names.
const (
	AuditSignup         = "SIGNUP"
	AuditLogin          = "LOGIN"
	AuditChatQuery      = "CHAT_QUERY"
	AuditVoiceQuery     = "VOICE_QUERY"
	AuditUploadDocument = "UPLOAD_DOCUMENT"
	AuditDeleteDocument = "DELETE_DOCUMENT"
	AuditAccessDenied   = "ACCESS_DENIED"
	AuditCreateSession  = "CREATE_SESSION"
)

// ChainHash computes the entry hash over the previous hash and the entry
// fields. Detail never contains document text.
func (a *AuditLog) ChainHash(prev string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%s|%d", prev, a.UserID, a.Action, a.Detail, a.CreatedAt.UnixNano())))
	return hex.EncodeToString(sum[:])
}
