package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/subtrack/subtrack/pkg/types"
)

// Platform is a service provider (streaming, hosting, ...) users can
// register subscriptions against. Admins manage the custom field schema
// subscribers fill in.
type Platform struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name    string `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	LogoURL string `gorm:"column:logo_url;type:varchar(512)" json:"logo_url"`
	// Fields is the platform's custom field schema.
	Fields datatypes.JSONType[[]types.PlatformField] `gorm:"column:fields;type:jsonb;default:'[]'" json:"fields"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Platform) TableName() string {
	return "platform"
}

// FieldByKey returns the schema field with the given key, if any.
func (p *Platform) FieldByKey(key string) *types.PlatformField {
	if p == nil {
		return nil
	}
	for _, f := range p.Fields.Data() {
		if f.Key == key {
			return &f
		}
	}
	return nil
}
