// graph.go
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

// GraphHandler handles follow routes
type GraphHandler struct {
	DB       *gorm.DB
	Notifier *services.Dispatcher
}

// FollowRequest names the other end of an edge. fk_followed is accepted for older clients.
type FollowRequest struct {
	UserID     string `json:"userId"`
	FkFollowed string `json:"fk_followed"`
}

func (r FollowRequest) target() string {
	return firstNonEmpty(r.UserID, r.FkFollowed)
}

// FollowResult is the result of a follow
type FollowResult struct {
	Follow       *models.Follow           `json:"follow"`
	Notification *services.DeliveryReport `json:"notification,omitempty"`
}

// Follow handles POST /api/follow
// @Summary Follow a user
// @Tags Graph
// @Accept json
// @Produce json
// @Param body body FollowRequest true "User to follow"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /follow [post]
func (h *GraphHandler) Follow(c *fiber.Ctx) error {
	followerID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "follow")
	}

	var in FollowRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "follow")
	}

	edge, err := services.Follow(h.DB.WithContext(c.UserContext()), followerID, in.target())
	if err != nil {
		return utils.ErrorResponse(c, err, "follow")
	}

	result := FollowResult{Follow: edge}
	if h.Notifier != nil {
		result.Notification = h.Notifier.NotifyNewFollower(c.UserContext(), followerID, edge.FollowedID)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Following user", result)
}

// Unfollow handles POST /api/unfollow
// @Summary Unfollow a user
// @Tags Graph
// @Accept json
// @Produce json
// @Param body body FollowRequest true "User to unfollow"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /unfollow [post]
func (h *GraphHandler) Unfollow(c *fiber.Ctx) error {
	followerID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "unfollow")
	}

	var in FollowRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "unfollow")
	}

	if err := services.Unfollow(h.DB.WithContext(c.UserContext()), followerID, in.target()); err != nil {
		return utils.ErrorResponse(c, err, "unfollow")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Unfollowed user", nil)
}

// Followers handles POST /api/followers
// @Summary List followers
// @Description Followers of the given user, or of the caller when no user is given
// @Tags Graph
// @Accept json
// @Produce json
// @Param body body FollowRequest false "User"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /followers [post]
func (h *GraphHandler) Followers(c *fiber.Ctx) error {
	return h.list(c, "followers", services.ListFollowers)
}

// Following handles POST /api/following
// @Summary List followed users
// @Description Users followed by the given user, or by the caller when no user is given
// @Tags Graph
// @Accept json
// @Produce json
// @Param body body FollowRequest false "User"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /following [post]
func (h *GraphHandler) Following(c *fiber.Ctx) error {
	return h.list(c, "following", services.ListFollowing)
}

func (h *GraphHandler) list(c *fiber.Ctx, operation string, lister func(*gorm.DB, string) (services.SummarySeq, error)) error {
	callerID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, operation)
	}

	var in FollowRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, operation)
	}

	seq, err := lister(h.DB.WithContext(c.UserContext()), firstNonEmpty(in.target(), callerID))
	if err != nil {
		return utils.ErrorResponse(c, err, operation)
	}

	users, err := services.CollectSummaries(seq)
	if err != nil {
		return utils.ErrorResponse(c, err, operation)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Users found", users)
}
