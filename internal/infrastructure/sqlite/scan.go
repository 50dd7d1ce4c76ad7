package sqlite

import (
	"database/sql/driver"
	"fmt"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// nullTime escanea columnas DATETIME que SQLite puede devolver como time.Time o como texto.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v, true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	case int64:
		n.Time, n.Valid = time.Unix(v, 0).UTC(), true
		return nil
	}
	return fmt.Errorf("sqlite: no se puede convertir %T a tiempo", src)
}

func (n *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("sqlite: formato de fecha desconocido %q", s)
}

func (n nullTime) ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// Value guarda los tiempos como texto RFC3339 en UTC.
func (n nullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time.UTC().Format(time.RFC3339Nano), nil
}

func timeArg(t time.Time) nullTime { return nullTime{Time: t, Valid: !t.IsZero()} }
