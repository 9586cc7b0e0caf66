package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// StringArray stores a list of strings portably across the supported
// drivers. It is written as a JSON array and read back from either JSON
// (mysql/sqlite) or the native postgres {a,b,c} literal.
type StringArray []string

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return a.scanText(string(v))
	case string:
		return a.scanText(v)
	default:
		return errors.New("StringArray: unsupported scan type")
	}
}

func (a *StringArray) scanText(s string) error {
	switch {
	case strings.HasPrefix(s, "["):
		return json.Unmarshal([]byte(s), a)
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
		if inner == "" {
			*a = []string{}
			return nil
		}
		items := strings.Split(inner, ",")
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, strings.Trim(item, `"`))
		}
		*a = out
		return nil
	case s == "":
		*a = []string{}
		return nil
	default:
		*a = []string{s}
		return nil
	}
}

// Value implements driver.Valuer. JSON form works on every driver.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// GormDataType returns the GORM data type hint.
func (StringArray) GormDataType() string {
	return "text"
}
