package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	redisstore "github.com/jhoicas/boutique-api/internal/infrastructure/redis"
)

// HeaderIdempotencyKey header opcional para deduplicar reintentos del cliente.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// idempotencyStore es el contrato mínimo que necesita el middleware.
// Lo implementa *redis.IdempotencyStore.
type idempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Complete(ctx context.Context, key string, resp redisstore.StoredResponse) error
	Get(ctx context.Context, key string) (*redisstore.StoredResponse, error)
	Release(ctx context.Context, key string) error
}

// Idempotency deduplica peticiones que traen Idempotency-Key. Debe usarse DESPUÉS de
// AuthMiddleware: la clave se acota por usuario, método y ruta.
//
// Comportamiento:
//   - sin header → pasa directo.
//   - clave nueva → ejecuta el handler; guarda la respuesta si es definitiva (2xx o 4xx
//     distinto de 409) y libera la clave en otro caso para permitir el reintento.
//   - clave con respuesta guardada → repite status y body con Idempotent-Replayed: true.
//   - clave en curso → 409 DUPLICATE_REQUEST.
//   - Redis caído → 503; aplicar el cambio sin deduplicar podría duplicarlo.
func Idempotency(store idempotencyStore, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		if len(key) > 255 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado largo"})
		}
		scoped := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key
		ctx := c.UserContext()

		reserved, err := store.Reserve(ctx, scoped)
		if err != nil {
			log.Error().Err(err).Msg("reservar clave de idempotencia")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la clave de idempotencia, intente más tarde"})
		}
		if !reserved {
			return replay(c, store, scoped)
		}

		if err := c.Next(); err != nil {
			if relErr := store.Release(ctx, scoped); relErr != nil {
				log.Warn().Err(relErr).Msg("liberar clave de idempotencia")
			}
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError || status == fiber.StatusConflict ||
			status == fiber.StatusTooManyRequests {
			if err := store.Release(ctx, scoped); err != nil {
				log.Warn().Err(err).Msg("liberar clave de idempotencia")
			}
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		if err := store.Complete(ctx, scoped, redisstore.StoredResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        body,
		}); err != nil {
			log.Warn().Err(err).Msg("guardar respuesta idempotente")
			// Sin respuesta guardada la clave quedaría pendiente hasta el TTL.
			if relErr := store.Release(ctx, scoped); relErr != nil {
				log.Warn().Err(relErr).Msg("liberar clave de idempotencia")
			}
		}
		return nil
	}
}

func replay(c *fiber.Ctx, store idempotencyStore, key string) error {
	saved, err := store.Get(c.UserContext(), key)
	if err != nil && !errors.Is(err, redisstore.ErrNotFound) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la clave de idempotencia, intente más tarde"})
	}
	if saved == nil || saved.Pending {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_REQUEST", Message: "una petición con la misma Idempotency-Key está en curso"})
	}
	c.Set(HeaderReplayed, "true")
	if saved.ContentType != "" {
		c.Set(fiber.HeaderContentType, saved.ContentType)
	}
	return c.Status(saved.Status).Send(saved.Body)
}
