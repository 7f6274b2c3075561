package service

import (
	"encoding/json"

	"gradepay/internal/logger"
	"gradepay/internal/models"
	"gradepay/internal/repository"
	"gradepay/internal/ws"

	"github.com/panjf2000/ants/v2"
)

// NotificationService persists notification rows and broadcasts them to
// connected clients. Dispatch runs on a worker pool so emitting never blocks
// the money path; delivery beyond emission is out of scope.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
	pool *ants.Pool
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	pool, err := ants.NewPool(16, ants.WithNonblocking(true))
	if err != nil {
		logger.Fatal("notification pool: %v", err)
	}
	return &NotificationService{repo: repo, hub: hub, pool: pool}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) {
	task := func() {
		var dataJSON string
		if data != nil {
			b, _ := json.Marshal(data)
			dataJSON = string(b)
		}
		n := &models.Notification{
			UserID: userID,
			Type:   notifType,
			Title:  title,
			Body:   body,
			Data:   dataJSON,
		}
		if err := s.repo.Create(n); err != nil {
			logger.Error("notification persist failed user=%d type=%s: %v", userID, notifType, err)
		}
		if s.hub != nil {
			s.hub.BroadcastToUser(userID, n)
		}
	}
	if err := s.pool.Submit(task); err != nil {
		// Pool saturated; deliver inline rather than drop the event.
		task()
	}
}

// NotifyAdmins pushes an event to every connected admin. Nothing is
// persisted; the admin list view is the durable record.
func (s *NotificationService) NotifyAdmins(notifType string, data map[string]interface{}) {
	task := func() {
		if s.hub == nil {
			return
		}
		s.hub.BroadcastToAdmins(map[string]interface{}{"type": notifType, "data": data})
	}
	if err := s.pool.Submit(task); err != nil {
		task()
	}
}

func (s *NotificationService) Close() {
	s.pool.Release()
}
