package websocket

import (
	"log"
	"sync"
	"time"

	"appreciatemate/models"

	"github.com/gorilla/websocket"
)

// GamificationClient represents a client connected for celebration updates
// (achievement unlocks, milestone completions, level-ups).
type GamificationClient struct {
	Conn    *websocket.Conn
	UserID  string
	writeMu sync.Mutex
}

// SafeWriteJSON safely writes JSON data to the client's WebSocket connection
func (gc *GamificationClient) SafeWriteJSON(v interface{}) error {
	gc.writeMu.Lock()
	defer gc.writeMu.Unlock()
	return gc.Conn.WriteJSON(v)
}

var (
	gamificationClients = make(map[*GamificationClient]bool)
	gamificationMutex   sync.RWMutex
)

// RegisterGamificationClient registers a client for celebration updates
func RegisterGamificationClient(client *GamificationClient) {
	gamificationMutex.Lock()
	defer gamificationMutex.Unlock()
	gamificationClients[client] = true
	log.Printf("Gamification client registered. Total clients: %d", len(gamificationClients))
}

// UnregisterGamificationClient removes a client from celebration updates
func UnregisterGamificationClient(client *GamificationClient) {
	gamificationMutex.Lock()
	defer gamificationMutex.Unlock()
	delete(gamificationClients, client)
	client.Conn.Close()
	log.Printf("Gamification client unregistered. Total clients: %d", len(gamificationClients))
}

// BroadcastGamificationEvent broadcasts a celebration event to all connected
// clients.
func BroadcastGamificationEvent(event models.GamificationEvent) {
	gamificationMutex.RLock()
	defer gamificationMutex.RUnlock()

	for client := range gamificationClients {
		if err := client.SafeWriteJSON(event); err != nil {
			log.Printf("Error broadcasting gamification event to client: %v", err)
			// Remove client if write fails
			go UnregisterGamificationClient(client)
		}
	}
}

// BroadcastUpdate fans a GamificationUpdate out as individual celebration
// events.
func BroadcastUpdate(userID string, update *models.GamificationUpdate) {
	for _, a := range update.NewAchievements {
		BroadcastGamificationEvent(models.GamificationEvent{
			Type:      "achievement_unlocked",
			UserID:    userID,
			Name:      a.Name,
			Icon:      a.Icon,
			Rarity:    a.Rarity,
			Timestamp: time.Now(),
		})
	}
	for _, m := range update.CompletedMilestones {
		BroadcastGamificationEvent(models.GamificationEvent{
			Type:      "milestone_completed",
			UserID:    userID,
			Name:      m.Title,
			Timestamp: time.Now(),
		})
	}
	if update.LevelUp {
		BroadcastGamificationEvent(models.GamificationEvent{
			Type:      "level_up",
			UserID:    userID,
			NewLevel:  update.NewLevel,
			Timestamp: time.Now(),
		})
	}
}
