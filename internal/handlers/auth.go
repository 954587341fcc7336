// auth.go
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
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and account recovery routes
type AuthHandler struct {
	DB     *gorm.DB
	Issuer *services.TokenIssuer
	Codes  *services.CodeMailer
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordRequest is the password change body
type PasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// EmailRequest names the account a code is sent to
type EmailRequest struct {
	Email string `json:"email"`
}

// CodeRequest carries a verification code and, for resets, the new password
type CodeRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
	NewPassword      string `json:"newPassword"`
}

// CodeResult reports a mailed code. Warning is set when delivery failed.
type CodeResult struct {
	Email   string `json:"email"`
	Warning string `json:"warning,omitempty"`
}

// CreateUser handles POST /api/create_users
// @Summary Register a user
// @Description Create a user with credentials and an optional location
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 500 {object} utils.Envelope
// @Router /create_users [post]
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "createUser")
	}

	user, err := services.Register(h.DB.WithContext(c.UserContext()), in)
	if err != nil {
		return utils.ErrorResponse(c, err, "createUser")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "User created", user)
}

// Login handles POST /api/login
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 401 {object} utils.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in LoginRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "login")
	}

	result, err := services.Login(h.DB.WithContext(c.UserContext()), h.Issuer, in.Email, in.Password)
	if err != nil {
		return utils.ErrorResponse(c, err, "login")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// UpdatePassword handles POST /api/auth/password
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body PasswordRequest true "Old and new password"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 401 {object} utils.Envelope
// @Security BearerAuth
// @Router /auth/password [post]
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "updatePassword")
	}

	var in PasswordRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "updatePassword")
	}

	if err := services.UpdatePassword(h.DB.WithContext(c.UserContext()), userID, in.OldPassword, in.NewPassword); err != nil {
		return utils.ErrorResponse(c, err, "updatePassword")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Password updated", nil)
}

// ForgotPassword handles POST /api/auth/forgot
// @Summary Request a password reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Account email"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /auth/forgot [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in EmailRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "forgotPassword")
	}

	warning, err := services.ForgotPassword(c.UserContext(), h.DB.WithContext(c.UserContext()), h.Codes, in.Email)
	if err != nil {
		return utils.ErrorResponse(c, err, "forgotPassword")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Verification code sent", CodeResult{Email: in.Email, Warning: warning})
}

// ResetPassword handles POST /api/auth/reset
// @Summary Reset a password with a code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body CodeRequest true "Email, code and new password"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /auth/reset [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in CodeRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "resetPassword")
	}

	if err := services.ResetPassword(h.DB.WithContext(c.UserContext()), in.Email, in.VerificationCode, in.NewPassword); err != nil {
		return utils.ErrorResponse(c, err, "resetPassword")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Password reset", nil)
}

// RequestVerification handles POST /api/auth/verify/request
// @Summary Request an email verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Account email"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /auth/verify/request [post]
func (h *AuthHandler) RequestVerification(c *fiber.Ctx) error {
	var in EmailRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "requestVerification")
	}

	warning, err := services.RequestEmailVerification(c.UserContext(), h.DB.WithContext(c.UserContext()), h.Codes, in.Email)
	if err != nil {
		return utils.ErrorResponse(c, err, "requestVerification")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Verification code sent", CodeResult{Email: in.Email, Warning: warning})
}

// ConfirmVerification handles POST /api/auth/verify/confirm
// @Summary Confirm an email address
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body CodeRequest true "Email and code"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /auth/verify/confirm [post]
func (h *AuthHandler) ConfirmVerification(c *fiber.Ctx) error {
	var in CodeRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "confirmVerification")
	}

	if err := services.ConfirmEmailVerification(h.DB.WithContext(c.UserContext()), in.Email, in.VerificationCode); err != nil {
		return utils.ErrorResponse(c, err, "confirmVerification")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Email verified", nil)
}
