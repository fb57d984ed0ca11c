package domain

// StreamToolMetrics - Redis Stream с записями о вызовах инструментов
const StreamToolMetrics = "stream:tool:metrics"

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
