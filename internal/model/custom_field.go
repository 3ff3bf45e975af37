// internal/model/custom_field.go
package model

import "time"

const (
	CustomFieldText     = "text"
	CustomFieldNumber   = "number"
	CustomFieldEmail    = "email"
	CustomFieldDate     = "date"
	CustomFieldTextarea = "textarea"
	CustomFieldSelect   = "select"
	CustomFieldCheckbox = "checkbox"
)

// CustomField describes an admin-defined campaign attribute.
type CustomField struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,max=100"`
	Label       string    `db:"label" json:"label" validate:"required"`
	Type        string    `db:"type" json:"type" validate:"oneof=text number email date textarea select checkbox"`
	Required    bool      `db:"required" json:"required"`
	Placeholder string    `db:"placeholder" json:"placeholder"`
	Description string    `db:"description" json:"description"`
	Options     []string  `db:"options" json:"options" validate:"dive,required"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
