package repository

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"canteen/internal/domain"
)

// shapeRows превращает произвольный результат запроса в упорядоченный
// список словарей с именами колонок как в базе. Ноль строк — пустой
// список, не ошибка.
func shapeRows(rows pgx.Rows) ([]domain.ReportRow, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := make([]domain.ReportRow, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(domain.ReportRow, len(fields))
		for i, f := range fields {
			rec[f.Name] = jsonValue(values[i])
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// jsonValue приводит значения драйвера к типам, пригодным для JSON
func jsonValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case pgtype.Time:
		// microseconds since midnight
		return time.UnixMicro(t.Microseconds).UTC().Format("15:04:05")
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", t[0:4], t[4:6], t[6:8], t[8:10], t[10:16])
	default:
		return v
	}
}
