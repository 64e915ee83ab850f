package services

import (
	"context"

	"github.com/huangang/quill/internal/models"
	"github.com/huangang/quill/pkg/response"
	"gorm.io/gorm"
)

type CreateCommentRequest struct {
	BlogID  string `json:"blogId" binding:"required"`
	Content string `json:"content" binding:"required,max=1000"`
}

type CommentService struct {
	db    *gorm.DB
	blogs *BlogService
}

func NewCommentService(db *gorm.DB, blogs *BlogService) *CommentService {
	return &CommentService{db: db, blogs: blogs}
}

// Create adds a comment to an existing blog.
func (s *CommentService) Create(ctx context.Context, authorID string, req *CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.blogs.GetByID(ctx, req.BlogID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  req.Content,
		BlogID:   req.BlogID,
		AuthorID: authorID,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, response.Internal(err)
	}
	return comment, nil
}

// ListByBlog returns the comments of a blog, oldest first.
func (s *CommentService) ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("blog_id = ?", blogID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, response.Internal(err)
	}
	return comments, nil
}
