package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/internal/middleware"
	"github.com/huangang/quill/internal/services"
	"github.com/huangang/quill/internal/utils"
	"github.com/huangang/quill/pkg/response"
)

type CommentHandler struct {
	service *services.CommentService
}

func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	comment, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// ListByBlog returns the comments of the blog named by :id.
func (h *CommentHandler) ListByBlog(c *gin.Context) {
	comments, err := h.service.ListByBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}
