// push.go
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

// Package push delivers push notifications to device tokens.
package push

import (
	"context"
	"log"
)

// Message is the payload of one push notification
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Result is the per-token outcome of a send, in token order
type Result struct {
	Token string
	Err   error
}

// Sender delivers a message to a batch of tokens. A returned error means the whole batch
// failed; per-token failures are reported in the results.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) ([]Result, error)
}

// LogSender logs messages instead of delivering them. Used when Firebase is not configured.
type LogSender struct{}

// Send logs the message and reports every token delivered
func (LogSender) Send(ctx context.Context, tokens []string, msg Message) ([]Result, error) {
	results := make([]Result, len(tokens))
	for i, token := range tokens {
		results[i] = Result{Token: token}
	}
	log.Printf("push (log only): %q to %d token(s)", msg.Title, len(tokens))
	return results, nil
}
