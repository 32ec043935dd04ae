package bano

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// BANO CSV column order: id, house number, street, zip, city, source, lat, lon.
const recordFields = 8

// ResolveFiles expands the input path into the list of files to import: a
// regular file yields itself, a directory yields every regular file inside.
func ResolveFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.Type().IsRegular() {
			files = append(files, filepath.Join(input, ent.Name()))
		}
	}
	return files, nil
}

// ReadFile streams the records of one BANO CSV file through fn. Structural
// errors (unreadable file, wrong column count, unparsable coordinates) abort
// the file; fn returning an error aborts too and that error propagates.
func ReadFile(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = recordFields
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		lat, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return fmt.Errorf("read %s: bad latitude %q: %w", path, row[6], err)
		}
		lon, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return fmt.Errorf("read %s: bad longitude %q: %w", path, row[7], err)
		}
		rec := Record{
			ID:          row[0],
			HouseNumber: row[1],
			Street:      row[2],
			ZipCode:     row[3],
			City:        row[4],
			Source:      row[5],
			Lat:         lat,
			Lon:         lon,
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
