// Package redis provee la numeración secuencial atómica sobre Redis (INCR).
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix prefijo de las claves de contadores.
const DefaultKeyPrefix = "heliosuite:seq:"

// Connect crea el cliente a partir de una URL redis:// y verifica la conexión.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: url inválida: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// Counter implementa numbering.Generator con un contador por Scope. La primera vez que se usa
// una secuencia el contador se siembra con el último valor persistido (SETNX), y desde ahí
// cada número sale de un INCR atómico.
type Counter struct {
	client    goredis.UniversalClient
	seed      numbering.Seeder
	keyPrefix string
}

// NewCounter construye el contador. seed suele ser numbering.LastRecord.
func NewCounter(client goredis.UniversalClient, seed numbering.Seeder) *Counter {
	return &Counter{client: client, seed: seed, keyPrefix: DefaultKeyPrefix}
}

// Next siguiente identificador de la secuencia.
func (c *Counter) Next(ctx context.Context, s numbering.Scheme) (string, error) {
	key := c.key(s)
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("redis: exists %s: %w", key, err)
	}
	if exists == 0 {
		last, err := c.seed.Last(ctx, s)
		if err != nil {
			return "", err
		}
		if err := c.client.SetNX(ctx, key, last, 0).Err(); err != nil {
			return "", fmt.Errorf("redis: setnx %s: %w", key, err)
		}
	}
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("redis: incr %s: %w", key, err)
	}
	return s.Format(int(n)), nil
}

func (c *Counter) key(s numbering.Scheme) string {
	return c.keyPrefix + s.Collection + ":" + s.Scope
}
