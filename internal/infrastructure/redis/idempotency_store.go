package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "idem:"
	pendingMarker        = "pending"
)

// ErrNotFound la clave no existe (expiró o nunca se reservó).
var ErrNotFound = errors.New("clave de idempotencia no encontrada")

// StoredResponse respuesta guardada para repetirla ante una solicitud duplicada.
// Pending es true mientras la solicitud original sigue en curso.
type StoredResponse struct {
	Pending     bool   `json:"-"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyStore reserva claves de idempotencia en Redis con SETNX + TTL.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// Reserve marca la clave como en curso. Devuelve false si ya existía.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, pendingMarker, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reservar clave de idempotencia: %w", err)
	}
	return ok, nil
}

// Complete reemplaza la marca de en curso por la respuesta final, manteniendo el TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp StoredResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, idempotencyKeyPrefix+key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar respuesta idempotente: %w", err)
	}
	return nil
}

// Get devuelve la respuesta guardada o una con Pending=true si la original no terminó.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*StoredResponse, error) {
	val, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leer clave de idempotencia: %w", err)
	}
	if string(val) == pendingMarker {
		return &StoredResponse{Pending: true}, nil
	}
	var resp StoredResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, fmt.Errorf("decodificar respuesta idempotente: %w", err)
	}
	return &resp, nil
}

// Release elimina la clave para que el cliente pueda reintentar con la misma.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
