// common.go
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
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/middleware"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/types"
)

var errNoCaller = &types.AppError{Kind: types.KindUnauthorized, Message: "user not found in context"}

// getUserID extracts the caller's user ID from the verified token claims (set by auth middleware)
func getUserID(c *fiber.Ctx) (string, error) {
	claims := middleware.CurrentUser(c)
	if claims == nil || claims.ID == "" {
		return "", errNoCaller
	}
	return claims.ID, nil
}

// parseBody decodes the JSON body into dest. An empty body leaves dest untouched.
func parseBody(c *fiber.Ctx, dest interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dest); err != nil {
		return types.Validation("malformed request body")
	}
	return nil
}

// pageFromQuery reads limit and offset query parameters, falling back to the body values
func pageFromQuery(c *fiber.Ctx, page *services.Page) {
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		page.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		page.Offset = v
	}
}

// firstNonEmpty returns the first non-empty value, for bodies that accept a legacy field name
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
