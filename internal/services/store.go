// store.go
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
	"errors"
	"log"
	"strings"

	"github.com/localnerve/barrio/internal/metrics"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
)

// isDuplicateKey reports a unique constraint violation. TranslateError covers the drivers
// that implement an error translator; the string checks cover the rest.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// requireID validates an identifier argument
func requireID(id, name string) error {
	if !models.ValidID(id) {
		return types.InvalidArgument("invalid " + name)
	}
	return nil
}

// requireUsers checks that every id names an existing user
func requireUsers(db *gorm.DB, ids ...string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return types.Internal("failed to look up user", err)
	}
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if count != int64(len(unique)) {
		return types.ErrUserNotFound
	}
	return nil
}

// incrementCounter atomically adds one to a counter column
func incrementCounter(tx *gorm.DB, model interface{}, column, id string) error {
	res := tx.Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// decrementCounter atomically subtracts one from a counter column, never below zero.
// A counter that is already zero while its edge existed is drift, not a failure.
func decrementCounter(tx *gorm.DB, model interface{}, column, id string) error {
	res := tx.Model(model).
		Where("id = ? AND "+column+" > 0", id).
		UpdateColumn(column, gorm.Expr(column+" - ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("counter drift: %s on %s already zero, clamped", column, id)
		metrics.Drift(column, 1)
	}
	return nil
}
