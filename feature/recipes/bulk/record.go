package bulk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"recipe-pipeline/core/changeset"
	"recipe-pipeline/core/csvimport"
	"recipe-pipeline/core/utils"
	"recipe-pipeline/feature/recipes/models"
	"recipe-pipeline/feature/recipes/store"
)

// UpdateRecord is one caller supplied correction: an identifier plus field
// overrides in the order they were given.
type UpdateRecord struct {
	ID     string
	UUID   models.FlexID
	Fields []changeset.Field
	// Line is the CSV source line, zero for JSON input.
	Line int
}

// Ref returns the identifiers of the record.
func (u UpdateRecord) Ref() store.Ref {
	return store.Ref{ID: u.ID, UUID: u.UUID}
}

// UnmarshalJSON decodes an object keeping its key order. Numbers stay
// json.Number until normalization so large uuids keep their digits.
func (u *UpdateRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("update record must be an object")
	}

	*u = UpdateRecord{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		switch key {
		case "_id":
			u.ID = strings.TrimSpace(utils.ToString(value))
		case "uuid":
			u.UUID, _ = models.ParseFlexID(value)
		default:
			u.Fields = append(u.Fields, changeset.Field{Name: key, Value: value})
		}
	}
	_, err = dec.Token()
	return err
}

// RecordsFromCSV converts parsed rows into update records. The uuid and _id
// columns are identifiers, every other column is an override. Empty cells
// are not overrides.
func RecordsFromCSV(table *csvimport.Table) []UpdateRecord {
	records := make([]UpdateRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := UpdateRecord{Line: row.Line}
		for i, header := range table.Header {
			if i >= len(row.Cells) {
				break
			}
			cell := row.Cells[i]
			switch strings.ToLower(header) {
			case "_id":
				rec.ID = strings.TrimSpace(cell)
			case "uuid":
				rec.UUID, _ = models.ParseFlexID(cell)
			default:
				if strings.TrimSpace(cell) == "" {
					continue
				}
				name, _ := models.CanonicalField(header)
				rec.Fields = append(rec.Fields, changeset.Field{Name: name, Value: cell})
			}
		}
		records = append(records, rec)
	}
	return records
}

// Request is a JSON bulk update body.
type Request struct {
	Records []UpdateRecord `json:"records"`
	Reason  string         `json:"reason"`
	DryRun  bool           `json:"dryRun"`
}

// DecodeRequest reads a bulk update body. A bare array of records is
// accepted as well as the object form.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	data = bytes.TrimSpace(data)
	var err error
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &req.Records)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid bulk update body: %w", err)
	}
	return &req, nil
}
