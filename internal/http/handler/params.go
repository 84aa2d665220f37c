package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"filerepo/internal/http/middleware"
)

const dateLayout = "2006-01-02"

// tenantParam parses the :tenantId route parameter.
func tenantParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(middleware.TenantIDParam), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryDate parses a YYYY-MM-DD query value in UTC. endOfDay moves it to
// the last instant of that day so the range is inclusive.
func queryDate(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}
