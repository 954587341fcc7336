package services

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	mailer "github.com/localnerve/barrio/internal/mail"
)

// minPasswordLength is the shortest password accepted
const minPasswordLength = 8

// maxPasswordLength is the bcrypt input limit in bytes
const maxPasswordLength = 72

// Claims are the token claims of an authenticated user
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer for the shared secret
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the credential
func (t *TokenIssuer) Issue(cred *models.Credential) (string, time.Time, error) {
	issued := now()
	expires := issued.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:    cred.UserID,
		Email: cred.Email,
		Role:  cred.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cred.UserID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse verifies a token and returns its claims
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !models.ValidID(claims.ID) {
		return nil, fmt.Errorf("token has no valid user id")
	}
	return claims, nil
}

// RegisterInput is the registration form
type RegisterInput struct {
	Email          string         `json:"email"`
	Password       string         `json:"password"`
	Username       string         `json:"username"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	ProfilePicture string         `json:"profilePicture"`
	Gender         string         `json:"gender"`
	BirthDate      *time.Time     `json:"birthDate"`
	FCMToken       string         `json:"fcmToken"`
	Location       *LocationInput `json:"location"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
	Role      string       `json:"role"`
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return types.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return types.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return types.Validation("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return types.Validation("email is malformed")
	}
	return nil
}

// Register creates the user, its credential and optional location in one transaction
func Register(db *gorm.DB, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Username == "" {
		return nil, types.Validation("username is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, types.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:       in.Username,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		ProfilePicture: in.ProfilePicture,
		Gender:         in.Gender,
		BirthDate:      in.BirthDate,
		FCMToken:       in.FCMToken,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Credential{}).Where("email = ?", in.Email).Count(&taken).Error; err != nil {
			return types.Internal("failed to look up email", err)
		}
		if taken > 0 {
			return types.ErrEmailTaken
		}

		if in.Location != nil {
			loc, err := createLocation(tx, *in.Location)
			if err != nil {
				return err
			}
			user.LocationID = &loc.ID
			user.Location = loc
		}

		if err := tx.Omit("Location").Create(user).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrUsernameTaken
			}
			return types.Internal("failed to create user", err)
		}

		cred := &models.Credential{
			UserID:       user.ID,
			Email:        in.Email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
		}
		if err := tx.Create(cred).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrEmailTaken
			}
			return types.Internal("failed to create credential", err)
		}
		return nil
	})
	if err != nil {
		if types.KindOf(err) == types.KindInternal {
			log.Printf("register %s: %v", in.Email, err)
		}
		return nil, err
	}

	return user, nil
}

// Login checks the password and issues a token
func Login(db *gorm.DB, issuer *TokenIssuer, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, types.Validation("email and password are required")
	}

	var cred models.Credential
	if err := db.Where("email = ?", email).First(&cred).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, types.Internal("failed to look up credential", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, types.ErrInvalidCredentials
	}

	user, err := GetUser(db, cred.UserID)
	if err != nil {
		return nil, err
	}

	token, expires, err := issuer.Issue(&cred)
	if err != nil {
		return nil, types.Internal("failed to issue token", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expires, User: user, Role: cred.Role}, nil
}

// UpdatePassword replaces the caller's password after checking the old one
func UpdatePassword(db *gorm.DB, userID, oldPassword, newPassword string) error {
	if oldPassword == "" {
		return types.Validation("old password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	var cred models.Credential
	if err := db.Where("user_id = ?", userID).First(&cred).Error; err != nil {
		if isNotFound(err) {
			return types.ErrUserNotFound
		}
		return types.Internal("failed to look up credential", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(oldPassword)) != nil {
		return types.ErrWrongPassword
	}

	return setPassword(db, cred.ID, newPassword)
}

func setPassword(tx *gorm.DB, credentialID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Internal("failed to hash password", err)
	}
	if err := tx.Model(&models.Credential{}).
		Where("id = ?", credentialID).
		Update("password_hash", string(hash)).Error; err != nil {
		return types.Internal("failed to update password", err)
	}
	return nil
}

// CodeMailer sends verification codes with a bounded wait
type CodeMailer struct {
	Sender  mailer.Sender
	Timeout time.Duration
	TTL     time.Duration
}

// send mails the code. A failure is logged and returned as a warning, the code stays valid.
func (m *CodeMailer) send(ctx context.Context, email, subject, code string) string {
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	minutes := int(m.TTL.Minutes())
	err := m.Sender.Send(ctx, mailer.Message{
		To:       email,
		Subject:  subject,
		TextPart: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes),
		HTMLPart: fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, minutes),
	})
	if err != nil {
		log.Printf("mail %q to %s: %v", subject, email, err)
		return "verification email could not be sent"
	}
	return ""
}

// credentialByEmail loads the credential of a registered email
func credentialByEmail(db *gorm.DB, email string) (*models.Credential, error) {
	var cred models.Credential
	if err := db.Where("email = ?", email).First(&cred).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrUnknownEmail
		}
		return nil, types.Internal("failed to look up credential", err)
	}
	return &cred, nil
}

// ForgotPassword issues a password reset code and mails it. The returned string is a
// non-fatal delivery warning.
func ForgotPassword(ctx context.Context, db *gorm.DB, m *CodeMailer, email string) (string, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if _, err := credentialByEmail(db, email); err != nil {
		return "", err
	}

	code, err := IssueCode(db, email, models.PurposePasswordReset, m.TTL)
	if err != nil {
		return "", err
	}
	return m.send(ctx, email, "Password reset", code), nil
}

// ResetPassword sets a new password when the reset code matches
func ResetPassword(db *gorm.DB, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	cred, err := credentialByEmail(db, email)
	if err != nil {
		return err
	}

	return ConsumeCode(db, email, models.PurposePasswordReset, code, func(tx *gorm.DB) error {
		return setPassword(tx, cred.ID, newPassword)
	})
}

// RequestEmailVerification mails an email verification code
func RequestEmailVerification(ctx context.Context, db *gorm.DB, m *CodeMailer, email string) (string, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return "", err
	}
	cred, err := credentialByEmail(db, email)
	if err != nil {
		return "", err
	}
	if cred.EmailVerified {
		return "", types.Validation("email already verified")
	}

	code, err := IssueCode(db, email, models.PurposeEmailVerify, m.TTL)
	if err != nil {
		return "", err
	}
	return m.send(ctx, email, "Verify your email", code), nil
}

// ConfirmEmailVerification marks the email verified when the code matches
func ConfirmEmailVerification(db *gorm.DB, email, code string) error {
	email = normalizeEmail(email)
	cred, err := credentialByEmail(db, email)
	if err != nil {
		return err
	}

	return ConsumeCode(db, email, models.PurposeEmailVerify, code, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Credential{}).
			Where("id = ?", cred.ID).
			Update("email_verified", true).Error; err != nil {
			return types.Internal("failed to verify email", err)
		}
		return nil
	})
}
