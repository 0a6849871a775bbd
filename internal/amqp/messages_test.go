package amqp

import "testing"

func TestTransactionEventMessageRoundTrip(t *testing.T) {
	msg := NewTransactionEventMessage(42, ActionCreated)
	if msg.OccurredAt.IsZero() {
		t.Error("OccurredAt not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := TransactionEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != 42 || decoded.Action != ActionCreated {
		t.Errorf("decoded = %+v", decoded)
	}
	if !decoded.OccurredAt.Equal(msg.OccurredAt) {
		t.Errorf("timestamp drifted: %v vs %v", decoded.OccurredAt, msg.OccurredAt)
	}
}

func TestTransactionEventMessageFromJSONInvalid(t *testing.T) {
	if _, err := TransactionEventMessageFromJSON([]byte("{broken")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
