package line

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)
	sig := SignBody(secret, body)

	if !ValidateSignature(secret, sig, body) {
		t.Error("expected valid signature to pass")
	}
	if ValidateSignature(secret, sig, []byte(`{"events":[{}]}`)) {
		t.Error("expected tampered body to fail")
	}
	if ValidateSignature("other-secret", sig, body) {
		t.Error("expected wrong secret to fail")
	}
	if ValidateSignature(secret, "", body) {
		t.Error("expected empty signature to fail")
	}
	if ValidateSignature(secret, "not base64!!!", body) {
		t.Error("expected malformed signature to fail")
	}
	if ValidateSignature("", sig, body) {
		t.Error("expected empty secret to fail")
	}
}

func TestPushText(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/message/push" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		ChannelAccessToken: "test-token",
		BaseURL:            srv.URL,
	})
	if err := c.PushText(context.Background(), "U1234", "hello"); err != nil {
		t.Fatalf("PushText: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotBody["to"] != "U1234" {
		t.Errorf("expected recipient U1234, got %v", gotBody["to"])
	}
	msgs, ok := gotBody["messages"].([]interface{})
	if !ok || len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", gotBody["messages"])
	}
	msg := msgs[0].(map[string]interface{})
	if msg["type"] != "text" || msg["text"] != "hello" {
		t.Errorf("unexpected message payload: %v", msg)
	}
}

func TestPushFlexCarousel(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{ChannelAccessToken: "tok", BaseURL: srv.URL})

	bubble := FlexBubble{
		Type: "bubble",
		Body: NewVerticalBox(NewFlexText("09:00 family meeting")),
	}
	err := c.PushFlex(context.Background(), "G9999", "today's appointments", NewFlexCarousel(bubble))
	if err != nil {
		t.Fatalf("PushFlex: %v", err)
	}

	msgs := gotBody["messages"].([]interface{})
	msg := msgs[0].(map[string]interface{})
	if msg["type"] != "flex" {
		t.Errorf("expected flex message, got %v", msg["type"])
	}
	if msg["altText"] != "today's appointments" {
		t.Errorf("unexpected altText: %v", msg["altText"])
	}
	contents := msg["contents"].(map[string]interface{})
	if contents["type"] != "carousel" {
		t.Errorf("expected carousel container, got %v", contents["type"])
	}
	bubbles := contents["contents"].([]interface{})
	if len(bubbles) != 1 {
		t.Fatalf("expected one bubble, got %d", len(bubbles))
	}
}

func TestPushErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{ChannelAccessToken: "bad", BaseURL: srv.URL})

	err := c.PushText(context.Background(), "U1", "hi")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}

	if err := c.PushText(context.Background(), "", "hi"); err == nil {
		t.Error("expected error for empty recipient")
	}
	if err := c.Push(context.Background(), "U1"); err == nil {
		t.Error("expected error for zero messages")
	}
}
