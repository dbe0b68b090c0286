package kafka

import (
	"context"
	"time"

	"github.com/fathoor/library-service/config"
	"github.com/segmentio/kafka-go"
)

var (
	KafkaConn   *kafka.Conn
	KafkaReader *kafka.Reader
)

func CreateKafkaProducer(config *config.Config) *kafka.Conn {
	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		panic(err)
	}

	KafkaConn = conn
	return KafkaConn
}

func CreateKafkaReader(config *config.Config) *kafka.Reader {
	KafkaReader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:          []string{config.KafkaConfig.BrokerAddress},
		Topic:            config.KafkaConfig.BrokerTopic,
		Partition:        config.KafkaConfig.BrokerPartition,
		MinBytes:         1e3, // 1KB
		MaxBytes:         1e6, // 1MB
		MaxWait:          100 * time.Millisecond,
		ReadLagInterval:  -1,
		StartOffset:      kafka.LastOffset,
		GroupID:          "library-service",
		QueueCapacity:    1000,
		ReadBatchTimeout: 10 * time.Millisecond,
	})

	return KafkaReader
}

// Producer wraps the leader connection with the retry policy used by every
// event publish in the service.
type Producer struct {
	conn *kafka.Conn
}

func CreateProducer(conn *kafka.Conn) *Producer {
	return &Producer{conn: conn}
}

func (p *Producer) Publish(ctx context.Context, msg []byte) (err error) {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = p.conn.WriteMessages(kafka.Message{Value: msg})
		if err == nil {
			return nil
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return err
}
