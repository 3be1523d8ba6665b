package models

import "fmt"

// SheetKey identifies one user's progress on one problem sheet.
type SheetKey struct {
	UserID    int64  `json:"user_id" db:"user_id"`
	SheetType string `json:"sheet_type" db:"sheet_type"`
}

func (k SheetKey) String() string {
	return fmt.Sprintf("user %d sheet %q", k.UserID, k.SheetType)
}
