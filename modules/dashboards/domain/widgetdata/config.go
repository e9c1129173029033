package widgetdata

import (
	"github.com/go-faster/errors"
	"github.com/tidwall/gjson"
)

// MaxLimit caps the number of rows or points any widget may request.
const MaxLimit = 100

// Config is the parsed widget configuration. Providers read extra keys
// through Get.
type Config struct {
	Limit  int
	Days   int
	Months int
	Filter string
	raw    gjson.Result
}

var ErrInvalidConfig = errors.New("widget config must be a JSON object")

func ParseConfig(raw []byte) (Config, error) {
	if len(raw) == 0 {
		return Config{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return Config{}, ErrInvalidConfig
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return Config{}, ErrInvalidConfig
	}
	cfg := Config{
		Limit:  int(res.Get("limit").Int()),
		Days:   int(res.Get("days").Int()),
		Months: int(res.Get("months").Int()),
		Filter: res.Get("filter").String(),
		raw:    res,
	}
	if cfg.Limit < 0 {
		cfg.Limit = 0
	}
	if cfg.Limit > MaxLimit {
		cfg.Limit = MaxLimit
	}
	return cfg, nil
}

// Get reads an arbitrary gjson path from the raw config.
func (c Config) Get(path string) gjson.Result {
	return c.raw.Get(path)
}

// DaysOr returns Days, or def when unset.
func (c Config) DaysOr(def int) int {
	if c.Days > 0 {
		return c.Days
	}
	return def
}

func (c Config) MonthsOr(def int) int {
	if c.Months > 0 {
		return c.Months
	}
	return def
}
