// verification.go
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

package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// codeDigits is the length of a verification code
const codeDigits = 6

// maxCodeAttempts is how many wrong guesses a code survives
const maxCodeAttempts = 5

// now is replaced in tests
var now = time.Now

func newCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IssueCode stores a new code for (email, purpose), replacing any live one, and returns
// the plain code for mailing. Only its hash is persisted.
func IssueCode(db *gorm.DB, email, purpose string, ttl time.Duration) (string, error) {
	email = normalizeEmail(email)

	code, err := newCode()
	if err != nil {
		return "", types.Internal("failed to generate verification code", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", types.Internal("failed to generate verification code", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND purpose = ?", email, purpose).
			Delete(&models.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.VerificationCode{
			Email:     email,
			Purpose:   purpose,
			CodeHash:  string(hash),
			ExpiresAt: now().Add(ttl),
		}).Error
	})
	if err != nil {
		return "", types.Internal("failed to store verification code", err)
	}

	return code, nil
}

// ConsumeCode checks code for (email, purpose) and, when it matches, runs apply and deletes
// the code in the same transaction. An expired code is deleted and reported as
// ErrExpiredCode. A wrong code counts an attempt; the code is deleted on the
// maxCodeAttempts-th wrong guess.
func ConsumeCode(db *gorm.DB, email, purpose, code string, apply func(tx *gorm.DB) error) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if code == "" {
		return types.ErrInvalidCode
	}

	expired, wrong := false, false
	err := db.Transaction(func(tx *gorm.DB) error {
		var stored models.VerificationCode
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ? AND purpose = ?", email, purpose).
			First(&stored).Error; err != nil {
			if isNotFound(err) {
				return types.ErrInvalidCode
			}
			return types.Internal("failed to look up verification code", err)
		}

		if stored.Expired(now()) {
			expired = true
			if err := tx.Delete(&stored).Error; err != nil {
				return types.Internal("failed to delete verification code", err)
			}
			return nil
		}

		if bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(code)) != nil {
			wrong = true
			if stored.Attempts+1 >= maxCodeAttempts {
				if err := tx.Delete(&stored).Error; err != nil {
					return types.Internal("failed to delete verification code", err)
				}
				return nil
			}
			if err := tx.Model(&stored).
				UpdateColumn("attempts", gorm.Expr("attempts + ?", 1)).Error; err != nil {
				return types.Internal("failed to record verification attempt", err)
			}
			return nil
		}

		if apply != nil {
			if err := apply(tx); err != nil {
				return err
			}
		}

		if err := tx.Delete(&stored).Error; err != nil {
			return types.Internal("failed to delete verification code", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if expired {
		return types.ErrExpiredCode
	}
	if wrong {
		return types.ErrInvalidCode
	}
	return nil
}

// PurgeExpiredCodes deletes every code past its expiry
func PurgeExpiredCodes(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at <= ?", now()).Delete(&models.VerificationCode{})
	if res.Error != nil {
		return 0, types.Internal("failed to purge verification codes", res.Error)
	}
	return res.RowsAffected, nil
}
