package protocol

import "testing"

func TestMarshalUnmarshalEnvelope(t *testing.T) {
	data, err := Marshal(MsgSendMessage, SendMessagePayload{Text: "hola"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	msgType, raw, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if msgType != MsgSendMessage {
		t.Errorf("expected %q, got %q", MsgSendMessage, msgType)
	}

	payload, err := UnmarshalPayload[SendMessagePayload](raw)
	if err != nil {
		t.Fatalf("UnmarshalPayload failed: %v", err)
	}
	if payload.Text != "hola" {
		t.Errorf("expected %q, got %q", "hola", payload.Text)
	}
}

func TestMarshalEmptyPayload(t *testing.T) {
	data, err := Marshal(MsgExit, nil)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	msgType, raw, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if msgType != MsgExit {
		t.Errorf("expected %q, got %q", MsgExit, msgType)
	}
	if len(raw) != 0 {
		t.Errorf("expected empty payload, got %q", raw)
	}
}

func TestUnmarshalRejectsMissingType(t *testing.T) {
	if _, _, err := Unmarshal([]byte(`{"payload":{}}`)); err == nil {
		t.Error("expected error for envelope without type")
	}
	if _, _, err := Unmarshal([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
