// posts.go
//
// A neighborhood social network data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of barrio.
// barrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// barrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with barrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"gorm.io/gorm"
)

// PostHandler handles post and feed routes
type PostHandler struct {
	DB       *gorm.DB
	Notifier *services.Dispatcher
}

// FeedRequest pages and filters the feed
type FeedRequest struct {
	PostType models.PostType `json:"postType"`
	services.Page
}

// PostResult is the result of creating a post
type PostResult struct {
	Post         *models.Post             `json:"post"`
	Notification *services.DeliveryReport `json:"notification,omitempty"`
}

// CreatePost handles POST /api/postscreate
// @Summary Create a post
// @Description Creates the post with its own location and notifies the author's followers
// @Tags Posts
// @Accept json
// @Produce json
// @Param body body services.PostInput true "Post"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /postscreate [post]
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	authorID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "createPost")
	}

	var in services.PostInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "createPost")
	}

	post, err := services.CreatePost(h.DB.WithContext(c.UserContext()), authorID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, "createPost")
	}

	result := PostResult{Post: post}
	if h.Notifier != nil {
		result.Notification = h.Notifier.NotifyNewPost(c.UserContext(), authorID, post.ID)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Post created", result)
}

// Feed handles POST /api/posts
// @Summary Location feed
// @Description Posts in the caller's city or province, newest first
// @Tags Posts
// @Accept json
// @Produce json
// @Param body body FeedRequest false "Paging and type filter"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandler) Feed(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "feed")
	}

	var in FeedRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "feed")
	}
	pageFromQuery(c, &in.Page)

	posts, err := services.FeedFor(h.DB.WithContext(c.UserContext()), userID, services.FeedOptions{
		Limit:    in.Limit,
		Offset:   in.Offset,
		PostType: in.PostType,
	})
	if err != nil {
		return utils.ErrorResponse(c, err, "feed")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Posts found", posts)
}

// GetPost handles POST /api/post/:id
// @Summary Get a post
// @Tags Posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /post/{id} [post]
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := services.GetPost(h.DB.WithContext(c.UserContext()), c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, "getPost")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Post found", post)
}

// UpdatePost handles PUT /api/updateposts/:id
// @Summary Update a post
// @Description Only the author may update a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path string true "Post id"
// @Param body body services.PostUpdate true "Post fields"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /updateposts/{id} [put]
func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "updatePost")
	}

	var in services.PostUpdate
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "updatePost")
	}

	post, err := services.UpdatePost(h.DB.WithContext(c.UserContext()), userID, c.Params("id"), in)
	if err != nil {
		return utils.ErrorResponse(c, err, "updatePost")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Post updated", post)
}

// DeletePost handles DELETE /api/deleteposts/:id
// @Summary Delete a post
// @Description Only the author may delete a post. Its likes, location and notifications go with it.
// @Tags Posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /deleteposts/{id} [delete]
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "deletePost")
	}

	if err := services.DeletePost(h.DB.WithContext(c.UserContext()), userID, c.Params("id")); err != nil {
		return utils.ErrorResponse(c, err, "deletePost")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Post deleted", nil)
}

// PostsByUser handles POST /api/posts/user/:id
// @Summary List a user's posts
// @Tags Posts
// @Produce json
// @Param id path string true "User id"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /posts/user/{id} [post]
func (h *PostHandler) PostsByUser(c *fiber.Ctx) error {
	var page services.Page
	pageFromQuery(c, &page)

	posts, err := services.ListPostsByUser(h.DB.WithContext(c.UserContext()), c.Params("id"), page)
	if err != nil {
		return utils.ErrorResponse(c, err, "postsByUser")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Posts found", posts)
}
