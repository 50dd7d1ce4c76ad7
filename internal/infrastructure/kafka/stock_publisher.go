package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

const eventTypeStockAdjusted = "stock.adjusted"

// MessageWriter subconjunto de *kafka.Writer que usa el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StockAdjustedEvent payload publicado por cada ajuste confirmado.
type StockAdjustedEvent struct {
	EventID        string    `json:"eventId"`
	ProductID      string    `json:"productId"`
	Type           string    `json:"type"`
	QuantityChange int64     `json:"quantityChange"`
	StockLevel     int64     `json:"stockLevel"`
	Version        int64     `json:"version"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// StockPublisher publica StockAdjusted en Kafka detrás de un circuit breaker: con el broker
// caído las publicaciones fallan de inmediato en lugar de esperar el timeout de escritura.
type StockPublisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewWriter construye el *kafka.Writer del tópico de eventos de stock.
func NewWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
}

// NewStockPublisher crea el publicador. El breaker abre tras 5 fallos consecutivos y
// prueba de nuevo después de 30s.
func NewStockPublisher(w MessageWriter, log zerolog.Logger) *StockPublisher {
	return NewStockPublisherWithSettings(w, gobreaker.Settings{
		Name:    "kafka-stock-adjusted",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	}, log)
}

// NewStockPublisherWithSettings permite ajustar el breaker (tests).
func NewStockPublisherWithSettings(w MessageWriter, st gobreaker.Settings, log zerolog.Logger) *StockPublisher {
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker")
	}
	return &StockPublisher{writer: w, breaker: gobreaker.NewCircuitBreaker[struct{}](st)}
}

// PublishStockAdjusted usa el id de producto como clave: los eventos de un mismo producto
// van a la misma partición y conservan el orden de versiones.
func (p *StockPublisher) PublishStockAdjusted(ctx context.Context, adj entity.StockAdjustment) error {
	payload, err := json.Marshal(StockAdjustedEvent{
		EventID:        adj.ID,
		ProductID:      adj.ProductID,
		Type:           adj.Type,
		QuantityChange: adj.QuantityChange,
		StockLevel:     adj.StockLevel,
		Version:        adj.Version,
		OccurredAt:     adj.OccurredAt.UTC(),
	})
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(adj.ProductID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeStockAdjusted)},
		},
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("publicar %s: %w", eventTypeStockAdjusted, err)
	}
	return nil
}

// State estado actual del breaker (closed, half-open, open).
func (p *StockPublisher) State() string {
	return p.breaker.State().String()
}

func (p *StockPublisher) Close() error {
	return p.writer.Close()
}
