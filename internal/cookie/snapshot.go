package cookie

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// Persist writes the current mapping to w as CSV, one key,value record per
// cookie, sorted by key.
func (s *Store) Persist(w io.Writer) error {
	data := s.Dump()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	csvWriter := csv.NewWriter(w)
	for _, k := range keys {
		if err := csvWriter.Write([]string{k, data[k]}); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// Restore clears the jar and replays a snapshot written by Persist.
// Restored cookies get the attributes in opts, so with none they are
// session cookies.
func (s *Store) Restore(r io.Reader, opts ...SetOption) error {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = 2
	records, err := csvReader.ReadAll()
	if err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	s.Clear()
	for _, record := range records {
		s.Set(record[0], record[1], opts...)
	}
	return nil
}
