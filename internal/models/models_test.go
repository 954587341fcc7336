package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValidID(t *testing.T) {
	tests := map[string]bool{
		"5b0c7c8e-2f1d-4a8e-9d3f-6a1b2c3d4e5f": true,
		"5b0c7c8e2f1d4a8e9d3f6a1b2c3d4e5f":     false,
		"":                                     false,
		"not-a-uuid":                           false,
		"{5b0c7c8e-2f1d-4a8e-9d3f-6a1b2c3d4e5}": false,
	}
	for id, want := range tests {
		if got := ValidID(id); got != want {
			t.Errorf("ValidID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestBeforeCreateKeepsID(t *testing.T) {
	b := Base{}
	if err := b.BeforeCreate(nil); err != nil || !ValidID(b.ID) {
		t.Fatalf("Expected a generated id, got %q %v", b.ID, err)
	}
	id := b.ID
	b.BeforeCreate(nil)
	if b.ID != id {
		t.Error("Expected an assigned id to be kept")
	}
}

func TestLocationComplete(t *testing.T) {
	if (&Location{CityID: "c"}).Complete() {
		t.Error("Expected a location without province to be incomplete")
	}
	if !(&Location{CityID: "c", ProvinceID: "p"}).Complete() {
		t.Error("Expected city and province to be complete")
	}
}

func TestPostTypeValid(t *testing.T) {
	for _, pt := range []PostType{PostTypeIncident, PostTypeCommerce, PostTypeWaterOutage, PostTypeRecommendation} {
		if !pt.Valid() {
			t.Errorf("Expected %s to be valid", pt)
		}
	}
	if PostType("gossip").Valid() || PostType("").Valid() {
		t.Error("Expected unknown post types to be invalid")
	}
}

func TestVerificationCodeExpired(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	code := VerificationCode{ExpiresAt: at}
	if code.Expired(at.Add(-time.Second)) {
		t.Error("Expected the code to be live before expiry")
	}
	if !code.Expired(at) {
		t.Error("Expected the code to be expired at expiry")
	}
}

func TestJSONColumn(t *testing.T) {
	j, err := NewJSON(map[string]string{"postId": "p1"})
	if err != nil {
		t.Fatalf("NewJSON failed: %v", err)
	}
	var data map[string]string
	if err := j.Decode(&data); err != nil || data["postId"] != "p1" {
		t.Errorf("Decode = %v %v", data, err)
	}

	out, _ := json.Marshal(struct {
		Data  JSON `json:"data"`
		Empty JSON `json:"empty"`
	}{Data: j})
	if string(out) != `{"data":{"postId":"p1"},"empty":null}` {
		t.Errorf("Unexpected marshal output %s", out)
	}

	if v, err := (JSON{}).Value(); v != nil || err != nil {
		t.Errorf("Expected an empty column to be NULL, got %v %v", v, err)
	}
}
