package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// ReadCSV loads a comma-separated file with a header row into a Table.
func ReadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // validated against the header below

	header, err := reader.Read()
	if err != nil {
		return Table{}, eris.Wrapf(err, "dataset: read header %s", path)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, eris.Wrapf(err, "dataset: read row %s", path)
		}
		rows = append(rows, record)
	}

	return New(header, rows)
}

// WriteCSV writes the table (header + rows) to path. The write goes through a
// temp file and a rename so a failed flow leaves no partial output behind.
func (t Table) WriteCSV(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*.csv")
	if err != nil {
		return eris.Wrapf(err, "dataset: create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	w := csv.NewWriter(tmp)
	if err := w.Write(t.cols); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "dataset: write header %s", path)
	}
	for i, r := range t.rows {
		if err := w.Write(r); err != nil {
			tmp.Close() //nolint:errcheck
			return eris.Wrapf(err, "dataset: write row %d %s", i, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "dataset: flush %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "dataset: close temp file for %s", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "dataset: rename into %s", path)
	}
	return nil
}
