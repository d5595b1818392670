// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"uigen-go/internal/config"
	"uigen-go/pkg/log"
)

// EventVersionCreated 是新版本落库后发布的事件类型。
const EventVersionCreated = "version.created"

// VersionEvent 是发送到 Kafka 的版本事件，不携带完整代码。
type VersionEvent struct {
	Type        string `json:"type"`
	ID          uint64 `json:"id"`
	CreatedAt   int64  `json:"createdAt"`
	CodeExcerpt string `json:"codeExcerpt"`
}

// batchTimeout 控制同步写入的最长攒批等待，默认的 1s 会直接加到创建版本的请求延迟上。
const batchTimeout = 10 * time.Millisecond

// Publisher 发布版本事件。
type Publisher interface {
	PublishVersionCreated(ctx context.Context, event VersionEvent) error
	Close() error
}

// messageWriter 是 kafka.Writer 中被用到的部分。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type producer struct {
	writer  messageWriter
	timeout time.Duration
}

// NewProducer 初始化 Kafka 生产者。Brokers 为空时返回 nil，调用方视为不发布事件。
func NewProducer(cfg config.KafkaConfig) Publisher {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		log.Info("KAFKA_BROKERS 未配置，版本事件不会发布")
		return nil
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
	log.Infof("Kafka 生产者初始化成功, topic=%s", cfg.Topic)
	return newProducer(w)
}

func newProducer(w messageWriter) *producer {
	return &producer{writer: w, timeout: 5 * time.Second}
}

func splitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// PublishVersionCreated 以版本 ID 作为消息 key 发送事件。
func (p *producer) PublishVersionCreated(ctx context.Context, event VersionEvent) error {
	event.Type = EventVersionCreated
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal version event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(event.ID, 10)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish version event: %w", err)
	}
	return nil
}

func (p *producer) Close() error {
	return p.writer.Close()
}
