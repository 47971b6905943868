package tabular

import (
	"encoding/json"
	"fmt"
)

// Decode maps every record of table onto a T through its json tags, columns
// without a matching field are ignored and missing columns stay empty.
func Decode[T any](table Table) ([]T, error) {
	out := make([]T, 0, len(table.Records))
	for i, record := range table.Records {
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		var value T
		err = json.Unmarshal(raw, &value)
		if err != nil {
			return nil, fmt.Errorf("decode %s record %d: %w", table.Name, i, err)
		}
		out = append(out, value)
	}
	return out, nil
}
