package repository

import (
	"arogya_backend/internal/model"
	"arogya_backend/internal/util"

	"gorm.io/gorm"
)

// DocumentRepository is the document store adapter. Every read that takes a
// userID enforces ownership: a document is visible only to its owner.
type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.MedicalDocument) error {
	return r.DB.Create(doc).Error
}

// FindByUserPage lists one page of a user's documents, most recent first,
// together with the total count for the pager. Ordering ties break on id so
// repeated calls return an identical page.
func (r *DocumentRepository) FindByUserPage(userID uint, page, limit int) ([]model.MedicalDocument, int64, error) {
	var total int64
	if err := r.DB.Model(&model.MedicalDocument{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []model.MedicalDocument
	err := r.DB.Where("user_id = ?", userID).
		Order("uploaded_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&docs).Error
	return docs, total, err
}

// FindRecent returns at most n of the user's processed documents, most
// recent first. Failed uploads carry no usable text and are excluded.
func (r *DocumentRepository) FindRecent(userID uint, n int) ([]model.MedicalDocument, error) {
	var docs []model.MedicalDocument
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.DocumentProcessed).
		Order("uploaded_at DESC, id DESC").
		Limit(n).
		Find(&docs).Error
	return docs, err
}

// FindOwned fetches one document and verifies ownership. A document that
// exists but belongs to someone else returns ErrForbidden, not ErrNotFound,
// so the violation can be audited as a security event.
func (r *DocumentRepository) FindOwned(userID uint, docID string) (*model.MedicalDocument, error) {
	var doc model.MedicalDocument
	err := r.DB.First(&doc, "id = ?", docID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, util.ErrForbidden
	}
	return &doc, nil
}

// Delete removes a document after an ownership check.
func (r *DocumentRepository) Delete(userID uint, docID string) error {
	doc, err := r.FindOwned(userID, docID)
	if err != nil {
		return err
	}
	return r.DB.Delete(doc).Error
}
