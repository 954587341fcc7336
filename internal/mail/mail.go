// mail.go
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

// Package mail sends transactional email.
package mail

import (
	"context"
	"log"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/pkg/errors"
)

// Message is one outbound email
type Message struct {
	To       string
	Subject  string
	TextPart string
	HTMLPart string
}

// Sender sends a single email
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender logs messages instead of sending them. Used when Mailjet is not configured.
type LogSender struct{}

// Send logs the recipient and subject
func (LogSender) Send(ctx context.Context, msg Message) error {
	log.Printf("mail (log only): %q to %s", msg.Subject, msg.To)
	return nil
}

// MailjetSender sends through the Mailjet v3.1 send API
type MailjetSender struct {
	client    *mailjet.Client
	fromEmail string
	fromName  string
}

// NewMailjetSender creates a sender with the given API keys and from address
func NewMailjetSender(publicKey, privateKey, fromEmail, fromName string) *MailjetSender {
	return &MailjetSender{
		client:    mailjet.NewMailjetClient(publicKey, privateKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send delivers msg. The Mailjet client is not context aware, so the call runs in a
// goroutine and ctx bounds how long the caller waits.
func (s *MailjetSender) Send(ctx context.Context, msg Message) error {
	messages := &mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: s.fromEmail,
					Name:  s.fromName,
				},
				To: &mailjet.RecipientsV31{
					mailjet.RecipientV31{Email: msg.To},
				},
				Subject:  msg.Subject,
				TextPart: msg.TextPart,
				HTMLPart: msg.HTMLPart,
			},
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.client.SendMailV31(messages)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrapf(err, "mailjet send to %s", msg.To)
		}
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "mailjet send")
	}
}
