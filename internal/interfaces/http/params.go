package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/shopspring/decimal"
)

func pageRequest(c *fiber.Ctx) dto.PageRequest {
	req := dto.PageRequest{Limit: c.QueryInt("limit"), Cursor: c.Query("cursor")}
	req.DefaultPage()
	return req
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, invalidQuery(key, raw)
	}
	return &d, nil
}

// queryTime acepta RFC 3339 o una fecha YYYY-MM-DD (medianoche UTC).
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalidQuery(key, raw)
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidQuery(key, raw)
	}
	return &b, nil
}

// queryList separa por comas y descarta vacíos.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, part := range strings.Split(c.Query(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func invalidQuery(key, raw string) error {
	return domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("parámetro %s inválido: %q", key, raw))
}
