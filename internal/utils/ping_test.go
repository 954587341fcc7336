package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPingService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	if err := PingService(server.URL, time.Second); err != nil {
		t.Errorf("Expected a reachable server, got %v", err)
	}

	addr := server.URL
	server.Close()
	if err := PingService(addr, 200*time.Millisecond); err == nil {
		t.Error("Expected a closed server to be unreachable")
	}

	if err := PingService("://bad", time.Second); err == nil {
		t.Error("Expected an invalid URL to fail")
	}
	if err := PingService("mailto:someone", time.Second); err == nil {
		t.Error("Expected a URL without host to fail")
	}
}
