package blog

import (
	"errors"

	"gorm.io/gorm"
)

// GormStore backs the workflow engine with the blog schema tables.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetPost(id int64) (Post, error) {
	var post Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		return Post{}, mapNotFound(err)
	}
	return post, nil
}

func (s *GormStore) GetEdit(id int64) (Edit, error) {
	var edit Edit
	if err := s.db.First(&edit, "id = ?", id).Error; err != nil {
		return Edit{}, mapNotFound(err)
	}
	return edit, nil
}

func (s *GormStore) CreateEdit(edit *Edit) error {
	return s.db.Create(edit).Error
}

func (s *GormStore) UpdateEditContent(id int64, content string) error {
	tx := s.db.Model(&Edit{}).Where("id = ?", id).Update("new_content", content)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) UpdatePostContent(id int64, content string) error {
	tx := s.db.Model(&Post{}).Where("id = ?", id).Update("content", content)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// SetEditStatus is the single conditional update closing the double-accept
// race: the PENDING check and the status write happen in one statement.
func (s *GormStore) SetEditStatus(id int64, from, to string) (bool, error) {
	tx := s.db.Model(&Edit{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (s *GormStore) DeleteEdit(id int64) error {
	return s.db.Delete(&Edit{}, "id = ?", id).Error
}

func (s *GormStore) EditsByEditor(editorID int64) ([]Edit, error) {
	var edits []Edit
	err := s.db.Order("created_at DESC").Find(&edits, "editor_id = ?", editorID).Error
	return edits, err
}

func (s *GormStore) EditsByPostAuthor(authorID int64) ([]Edit, error) {
	var edits []Edit
	err := s.db.
		Joins("JOIN blog.posts ON blog.posts.id = blog.edits.post_id").
		Where("blog.posts.author_id = ?", authorID).
		Order("blog.edits.created_at DESC").
		Find(&edits).Error
	return edits, err
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
