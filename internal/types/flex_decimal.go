// flex_decimal.go
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

package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexDecimal is a non-negative decimal amount that can be unmarshaled from either a JSON number
// or a JSON string (multipart forms send prices as strings). It is kept in its canonical
// string form so no precision is lost on the way to the database.
type FlexDecimal string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return f.set(n.String())
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return f.set(s)
	}

	return fmt.Errorf("FlexDecimal: unexpected type, expected number or string")
}

func (f *FlexDecimal) set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = ""
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("FlexDecimal: invalid decimal %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("FlexDecimal: invalid decimal %q", s)
	}
	if v < 0 {
		return fmt.Errorf("FlexDecimal: negative amount %q", s)
	}
	*f = FlexDecimal(s)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// String returns the canonical decimal text.
func (f FlexDecimal) String() string {
	return string(f)
}
