package domain

import "time"

// ParticipantStat - активность одного участника чата.
type ParticipantStat struct {
	Name     string    `json:"name"`
	Messages int       `json:"messages"`
	Media    int       `json:"media"`
	Calls    int       `json:"calls"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
}

// IsMedia - true для сообщений-вложений и заглушек медиа.
func (k MessageKind) IsMedia() bool {
	switch k {
	case KindAudio, KindVideo, KindImage, KindSticker, KindDocument:
		return true
	}
	return false
}

// ParticipantStats считает активность участников в порядке Participants.
// Сообщения должны быть упорядочены по времени.
func (c Chat) ParticipantStats() []ParticipantStat {
	index := make(map[string]int, len(c.Participants))
	stats := make([]ParticipantStat, len(c.Participants))
	for i, p := range c.Participants {
		index[p] = i
		stats[i].Name = p
	}

	for _, msg := range c.Messages {
		i, ok := index[msg.Sender]
		if !ok {
			i = len(stats)
			index[msg.Sender] = i
			stats = append(stats, ParticipantStat{Name: msg.Sender})
		}
		s := &stats[i]
		if s.Messages == 0 {
			s.First = msg.Timestamp
		}
		s.Messages++
		s.Last = msg.Timestamp
		if msg.Kind.IsMedia() || msg.MediaFile != nil {
			s.Media++
		}
		if msg.Kind == KindCall {
			s.Calls++
		}
	}
	return stats
}
