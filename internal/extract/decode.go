package extract

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// decode copies a raw record into a typed provider struct. Fields that fail
// to convert keep their zero value; the remaining fields are still filled,
// so the returned error is informational only.
func decode(raw Record, target any) error {
	cfg := &mapstructure.DecoderConfig{
		DecodeHook:       nanToZero,
		WeaklyTypedInput: true,
		Result:           target,
		TagName:          "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// nanToZero maps NaN numbers, which dataframe exports use for missing
// values, to the zero value of the target field.
func nanToZero(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if f, ok := data.(float64); ok && math.IsNaN(f) {
		if to.Kind() == reflect.Interface {
			return nil, nil
		}
		return reflect.Zero(to).Interface(), nil
	}
	return data, nil
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes" || lower == "1"
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// dateString renders a provider date value as an ISO-8601 string.
// Strings pass through untouched and are never parsed here.
func dateString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if h, m, s := val.Clock(); h == 0 && m == 0 && s == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return dateString(*val)
	case map[string]any:
		year, month, day := int(coerceFloat(val["year"])), int(coerceFloat(val["month"])), int(coerceFloat(val["day"]))
		if year == 0 || month == 0 || day == 0 {
			return ""
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	case float64:
		// dataframe exports write dates as epoch milliseconds
		if math.IsNaN(val) || val <= 0 {
			return ""
		}
		return dateString(time.UnixMilli(int64(val)).UTC())
	default:
		return ""
	}
}
