package notify

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLog(zap.New(core).Sugar())

	if err := n.Notify(context.Background(), "<b>3 tasks</b>"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	entries := logs.FilterMessage("digest").All()
	if len(entries) != 1 {
		t.Fatalf("got %d digest entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["text"]; got != "<b>3 tasks</b>" {
		t.Errorf("text = %v", got)
	}
}
