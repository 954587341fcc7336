// firebase.go
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

package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// maxMulticast is the Firebase limit of tokens per multicast request
const maxMulticast = 500

// FirebaseSender delivers through Firebase Cloud Messaging
type FirebaseSender struct {
	client *messaging.Client
}

// NewFirebaseSender creates a messaging client from a service account file
func NewFirebaseSender(ctx context.Context, credentialsFile, projectID string) (*FirebaseSender, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "firebase messaging client")
	}

	return &FirebaseSender{client: client}, nil
}

// Send multicasts msg in chunks of maxMulticast tokens
func (s *FirebaseSender) Send(ctx context.Context, tokens []string, msg Message) ([]Result, error) {
	results := make([]Result, 0, len(tokens))

	for start := 0; start < len(tokens); start += maxMulticast {
		end := min(start+maxMulticast, len(tokens))
		chunk := tokens[start:end]

		resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: chunk,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		})
		if err != nil {
			if len(results) == 0 {
				return nil, errors.Wrapf(err, "multicast to %d token(s)", len(chunk))
			}
			// Earlier chunks went out; report this one as failed per token
			for _, token := range chunk {
				results = append(results, Result{Token: token, Err: err})
			}
			continue
		}

		for i, r := range resp.Responses {
			res := Result{Token: chunk[i]}
			if !r.Success {
				res.Err = r.Error
				if res.Err == nil {
					res.Err = errors.New("delivery failed")
				}
			}
			results = append(results, res)
		}
	}

	return results, nil
}

// IsUnregistered reports a token the transport no longer accepts
func IsUnregistered(err error) bool {
	return messaging.IsUnregistered(err)
}
