package repository

import (
	"arogya_backend/internal/model"
	"sync"
	"time"

	"gorm.io/gorm"
)

// AuditRepository appends to the hash-chained audit log. Appends are
// serialized so each entry links to the true previous hash.
type AuditRepository struct {
	DB *gorm.DB
	mu sync.Mutex
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

// Append records one event. Detail must never contain document plaintext.
func (r *AuditRepository) Append(userID uint, action, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var last model.AuditLog
	prev := ""
	err := r.DB.Order("id DESC").First(&last).Error
	if err == nil {
		prev = last.Hash
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	entry := model.AuditLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		PrevHash:  prev,
		CreatedAt: time.Now(),
	}
	entry.Hash = entry.ChainHash(prev)

	return r.DB.Create(&entry).Error
}

// Verify walks the chain and reports the id of the first broken entry, or 0.
func (r *AuditRepository) Verify() (uint, error) {
	var entries []model.AuditLog
	if err := r.DB.Order("id ASC").Find(&entries).Error; err != nil {
		return 0, err
	}

	prev := ""
	for _, e := range entries {
		if e.PrevHash != prev || e.Hash != e.ChainHash(prev) {
			return e.ID, nil
		}
		prev = e.Hash
	}
	return 0, nil
}
