package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/internal/middleware"
	"github.com/huangang/quill/internal/services"
	"github.com/huangang/quill/internal/utils"
	"github.com/huangang/quill/pkg/response"
)

type BlogHandler struct {
	service *services.BlogService
}

func NewBlogHandler(service *services.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// Create godoc
// @Summary Publish a blog
// @Tags Blogs
// @Accept json
// @Produce json
// @Param body body services.CreateBlogRequest true "Blog"
// @Success 201 {object} models.Blog
// @Router /blog [post]
func (h *BlogHandler) Create(c *gin.Context) {
	var req services.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	blog, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, blog)
}

func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}

func (h *BlogHandler) Get(c *gin.Context) {
	blog, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blog)
}

// Update godoc
// @Summary Edit a blog (author only)
// @Tags Blogs
// @Accept json
// @Produce json
// @Param body body services.UpdateBlogRequest true "Changes"
// @Success 200 {object} models.Blog
// @Router /blog [put]
func (h *BlogHandler) Update(c *gin.Context) {
	var req services.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	blog, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blog)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
