package ws

import (
	"testing"

	"gradepay/internal/domain"
)

func newClient(userID uint, role string) *Client {
	return &Client{UserID: userID, Role: role, Send: make(chan []byte, 4)}
}

func TestBroadcastToUser(t *testing.T) {
	h := NewHub()
	a := newClient(1, domain.RoleLecturer)
	b := newClient(1, domain.RoleLecturer)
	other := newClient(2, domain.RoleStudent)
	h.Register(a)
	h.Register(b)
	h.Register(other)

	h.BroadcastToUser(1, map[string]string{"hello": "there"})

	for _, c := range []*Client{a, b} {
		select {
		case <-c.Send:
		default:
			t.Fatal("registered client did not receive broadcast")
		}
	}
	select {
	case <-other.Send:
		t.Fatal("unrelated user received broadcast")
	default:
	}
}

func TestBroadcastToAdmins(t *testing.T) {
	h := NewHub()
	admin := newClient(9, domain.RoleAdmin)
	user := newClient(1, domain.RoleLecturer)
	h.Register(admin)
	h.Register(user)

	h.BroadcastToAdmins(map[string]string{"event": "withdrawal_requested"})

	select {
	case <-admin.Send:
	default:
		t.Fatal("admin did not receive broadcast")
	}
	select {
	case <-user.Send:
		t.Fatal("non-admin received admin broadcast")
	default:
	}
}

func TestCloseUnregisters(t *testing.T) {
	h := NewHub()
	c := newClient(1, domain.RoleAdmin)
	h.Register(c)
	c.Close()
	c.Close() // idempotent

	// Must not panic sending to a closed client.
	h.BroadcastToUser(1, "x")
	h.BroadcastToAdmins("x")
}

func TestSlowClientSkipped(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte)} // unbuffered, nobody reading
	h.Register(c)
	done := make(chan struct{})
	go func() {
		h.BroadcastToUser(1, "payload")
		close(done)
	}()
	<-done
}
