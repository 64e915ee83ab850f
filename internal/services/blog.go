package services

import (
	"context"
	"errors"

	"github.com/huangang/quill/internal/models"
	"github.com/huangang/quill/pkg/response"
	"gorm.io/gorm"
)

type CreateBlogRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

type UpdateBlogRequest struct {
	BlogID  string `json:"blogId" binding:"required"`
	Title   string `json:"title" binding:"omitempty,max=200"`
	Content string `json:"content"`
}

type BlogService struct {
	db *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

func (s *BlogService) Create(ctx context.Context, authorID string, req *CreateBlogRequest) (*models.Blog, error) {
	blog := &models.Blog{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.db.WithContext(ctx).Create(blog).Error; err != nil {
		return nil, response.Internal(err)
	}
	return blog, nil
}

// List returns every blog, newest first, with its author.
func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	err := s.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Find(&blogs).Error
	if err != nil {
		return nil, response.Internal(err)
	}
	return blogs, nil
}

func (s *BlogService) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("blog not found")
		}
		return nil, response.Internal(err)
	}
	return &blog, nil
}

// Update changes title and content. Only the author may edit; empty fields
// are left as they were.
func (s *BlogService) Update(ctx context.Context, userID string, req *UpdateBlogRequest) (*models.Blog, error) {
	blog, err := s.GetByID(ctx, req.BlogID)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != userID {
		return nil, response.NewForbidden("only the author can edit this blog")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if len(updates) == 0 {
		return blog, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", blog.ID).Updates(updates).Error; err != nil {
		return nil, response.Internal(err)
	}
	return s.GetByID(ctx, blog.ID)
}

// Delete removes the blog and its comments in one transaction. Only the
// author may delete.
func (s *BlogService) Delete(ctx context.Context, userID, id string) error {
	blog, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if blog.AuthorID != userID {
		return response.NewForbidden("only the author can delete this blog")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", blog.ID).Delete(&models.Blog{}).Error
	})
	if err != nil {
		return response.Internal(err)
	}
	return nil
}
