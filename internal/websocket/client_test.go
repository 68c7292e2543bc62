package websocket

import (
	"testing"
	"time"
)

func TestClient_SendJSONDropsWhenBufferFull(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}

	if err := c.SendJSON(map[string]string{"type": MsgAck}); err != nil {
		t.Fatalf("First send should queue: %v", err)
	}

	// The second send hits a full buffer. It must return, not block: the
	// read loop calls SendJSON and a slow writer must not wedge it.
	done := make(chan error, 1)
	go func() {
		done <- c.SendJSON(map[string]string{"type": MsgAck})
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Send into a full buffer should report the drop")
		}
	case <-time.After(time.Second):
		t.Fatal("SendJSON blocked on a full send buffer")
	}

	if len(c.send) != 1 {
		t.Errorf("Buffer should still hold exactly the first message, got %d", len(c.send))
	}
}
