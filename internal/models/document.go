// document.go
//
// Job application tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jobdash.
// jobdash is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jobdash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jobdash.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Document is a JSON column. An empty document is stored as NULL.
type Document struct {
	datatypes.JSON
}

// NewDocument encodes v as a document
func NewDocument(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode document: %w", err)
	}
	return Document{JSON: datatypes.JSON(raw)}, nil
}

// Empty reports a NULL or blank document
func (d Document) Empty() bool {
	return len(d.JSON) == 0
}

// Decode unmarshals the document into v. An empty document leaves v untouched.
func (d Document) Decode(v interface{}) error {
	if d.Empty() {
		return nil
	}
	if err := json.Unmarshal(d.JSON, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

func (d Document) Value() (driver.Value, error) {
	if d.Empty() {
		return nil, nil
	}
	return d.JSON.Value()
}

func (d *Document) Scan(value interface{}) error {
	if value == nil {
		d.JSON = nil
		return nil
	}
	return d.JSON.Scan(value)
}

// GormDBDataType uses JSONB on postgres and a text column where the dialect has no JSON type
func (Document) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql":
		return "JSON"
	case "sqlserver":
		return "NVARCHAR(MAX)"
	}
	return "TEXT"
}
