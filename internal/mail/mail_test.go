package mail

import (
	"context"
	"testing"
)

func TestLogSender(t *testing.T) {
	var sender Sender = LogSender{}
	err := sender.Send(context.Background(), Message{
		To:       "vecina@example.com",
		Subject:  "Código de verificación",
		TextPart: "123456",
	})
	if err != nil {
		t.Errorf("Expected the log sender to succeed, got %v", err)
	}
}
