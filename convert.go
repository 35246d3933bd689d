package rowmap

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// normalize unwraps driver.Valuer values (sql.Null*, pgtype) into plain
// driver values.
func normalize(v any) (any, error) {
	for range 4 {
		valuer, ok := v.(driver.Valuer)
		if !ok {
			return v, nil
		}
		dv, err := valuer.Value()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		v = dv
	}
	return v, nil
}

func conversionError(v any, target string) error {
	return fmt.Errorf("%w: %T to %s", ErrConversion, v, target)
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	if i, ok := asInt64(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if u, ok := v.(uint64); ok {
		return strconv.FormatUint(u, 10), nil
	}
	return "", conversionError(v, "string")
}

// asInt64 converts every integer kind that fits in int64.
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x), true
		}
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}

func toInt64(v any) (int64, error) {
	if i, ok := asInt64(v); ok {
		return i, nil
	}
	switch x := v.(type) {
	case float32:
		return floatToInt64(float64(x), v)
	case float64:
		return floatToInt64(x, v)
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseInt64(x, v)
	case []byte:
		return parseInt64(string(x), v)
	}
	return 0, conversionError(v, "int64")
}

func floatToInt64(f float64, orig any) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, conversionError(orig, "int64")
	}
	return int64(f), nil
}

func parseInt64(s string, orig any) (int64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	// numeric columns are often delivered as decimal text
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatToInt64(f, orig)
	}
	return 0, conversionError(orig, "int64")
}

func toInt32(v any) (int32, error) {
	i, err := toInt64(v)
	if err != nil {
		return 0, conversionError(v, "int32")
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d overflows int32", ErrConversion, i)
	}
	return int32(i), nil
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseFloat64(x, v)
	case []byte:
		return parseFloat64(string(x), v)
	}
	if i, ok := asInt64(v); ok {
		return float64(i), nil
	}
	if u, ok := v.(uint64); ok {
		return float64(u), nil
	}
	return 0, conversionError(v, "float64")
}

func parseFloat64(s string, orig any) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, conversionError(orig, "float64")
	}
	return f, nil
}

func toFloat32(v any) (float32, error) {
	f, err := toFloat64(v)
	if err != nil {
		return 0, conversionError(v, "float32")
	}
	if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, fmt.Errorf("%w: %g overflows float32", ErrConversion, f)
	}
	return float32(f), nil
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return parseBool(x, v)
	case []byte:
		return parseBool(string(x), v)
	case float32:
		return x != 0, nil
	case float64:
		return x != 0, nil
	}
	if i, ok := asInt64(v); ok {
		return i != 0, nil
	}
	return false, conversionError(v, "bool")
}

func parseBool(s string, orig any) (bool, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "y", "yes", "on":
		return true, nil
	case "n", "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, conversionError(orig, "bool")
	}
	return b, nil
}
