// likes.go
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

// LikeHandler handles like routes
type LikeHandler struct {
	DB       *gorm.DB
	Notifier *services.Dispatcher
}

// LikeRequest names the liked post. fk_post is accepted for older clients.
type LikeRequest struct {
	PostID string `json:"postId"`
	FkPost string `json:"fk_post"`
}

// LikeResult is the result of a like
type LikeResult struct {
	Like         *models.Like             `json:"like"`
	Notification *services.DeliveryReport `json:"notification,omitempty"`
}

// CreateLike handles POST /api/create_likes
// @Summary Like a post
// @Tags Likes
// @Accept json
// @Produce json
// @Param body body LikeRequest true "Post to like"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /create_likes [post]
func (h *LikeHandler) CreateLike(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "createLike")
	}

	var in LikeRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "createLike")
	}
	postID := firstNonEmpty(in.PostID, in.FkPost)

	like, err := services.Like(h.DB.WithContext(c.UserContext()), userID, postID)
	if err != nil {
		return utils.ErrorResponse(c, err, "createLike")
	}

	result := LikeResult{Like: like}
	if h.Notifier != nil {
		result.Notification = h.Notifier.NotifyNewLike(c.UserContext(), postID, userID)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Post liked", result)
}

// DeleteLike handles POST /api/likes/delete
// @Summary Remove a like
// @Description The like is found by (caller, post)
// @Tags Likes
// @Accept json
// @Produce json
// @Param body body LikeRequest true "Liked post"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /likes/delete [post]
func (h *LikeHandler) DeleteLike(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "deleteLike")
	}

	var in LikeRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "deleteLike")
	}

	if err := services.Unlike(h.DB.WithContext(c.UserContext()), userID, firstNonEmpty(in.PostID, in.FkPost)); err != nil {
		return utils.ErrorResponse(c, err, "deleteLike")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Like removed", nil)
}

// LikesByPost handles POST /api/likes/byPost/:id
// @Summary List likes of a post
// @Tags Likes
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /likes/byPost/{id} [post]
func (h *LikeHandler) LikesByPost(c *fiber.Ctx) error {
	likes, err := services.ListLikesByPost(h.DB.WithContext(c.UserContext()), c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, "likesByPost")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Likes found", likes)
}

// CountByPost handles POST /api/likes/count/:id
// @Summary Count likes of a post
// @Tags Likes
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /likes/count/{id} [post]
func (h *LikeHandler) CountByPost(c *fiber.Ctx) error {
	count, err := services.CountByPost(h.DB.WithContext(c.UserContext()), c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, "countByPost")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Likes counted", count)
}
