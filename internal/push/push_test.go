package push

import (
	"context"
	"errors"
	"testing"
)

func TestLogSenderDeliversEveryToken(t *testing.T) {
	tokens := []string{"tok-a", "tok-b", "tok-c"}
	results, err := LogSender{}.Send(context.Background(), tokens, Message{Title: "Nueva publicación"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(results) != len(tokens) {
		t.Fatalf("Expected %d results, got %d", len(tokens), len(results))
	}
	for i, result := range results {
		if result.Token != tokens[i] || result.Err != nil {
			t.Errorf("Unexpected result %d: %+v", i, result)
		}
	}
}

func TestIsUnregisteredPlainError(t *testing.T) {
	if IsUnregistered(nil) {
		t.Error("Expected nil not to be unregistered")
	}
	if IsUnregistered(errors.New("boom")) {
		t.Error("Expected a plain error not to be unregistered")
	}
}
