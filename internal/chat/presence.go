package chat

import (
	"sync"

	"github.com/google/uuid"
)

// PresenceEntry это один живой пользователь: кто, где и с каким аватаром.
// Поле id — идентификатор соединения, не пользователя.
type PresenceEntry struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Room       string    `json:"room"`
	ProfilePic string    `json:"profilePic"`
}

// Presence держит список подключенных пользователей в порядке входа.
// Живет только в памяти процесса: после рестарта все соединения
// переподключаются и список строится заново.
type Presence struct {
	mu      sync.Mutex
	entries []PresenceEntry
}

func NewPresence() *Presence {
	return &Presence{}
}

// Join добавляет запись о соединении. Старая запись с тем же username
// вытесняется: пользователь, перезашедший или сменивший комнату,
// не должен числиться дважды. Дедупликация идет по имени, не по
// соединению — это осознанная политика, одинаковые имена с разных
// устройств схлопываются в одну запись.
func (p *Presence) Join(connID uuid.UUID, username, room, avatar string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.Username != username {
			kept = append(kept, e)
		}
	}
	p.entries = append(kept, PresenceEntry{
		ID:         connID,
		Username:   username,
		Room:       room,
		ProfilePic: avatar,
	})
}

// Leave убирает запись соединения; повторный вызов безвреден
func (p *Presence) Leave(connID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.ID != connID {
			kept = append(kept, e)
		}
	}
	p.entries = kept
}

// Snapshot возвращает копию списка, старые записи первыми
func (p *Presence) Snapshot() []PresenceEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make([]PresenceEntry, len(p.entries))
	copy(snapshot, p.entries)
	return snapshot
}
