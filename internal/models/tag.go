package models

// TagType enumerates the value shapes a report tag can hold.
type TagType string

const (
	TagText     TagType = "text"
	TagNumber   TagType = "number"
	TagDate     TagType = "date"
	TagDatetime TagType = "datetime"
	TagLocation TagType = "location"
	TagBoolean  TagType = "boolean"
	TagImage    TagType = "image"
	TagCDAImage TagType = "cda-image"
)

// Tag is one named, typed field on a report template. Location tags hold a
// set of device identifiers serialized as a delimited string or native list.
type Tag struct {
	ID         string  `json:"id"`
	TemplateID string  `json:"template_id"`
	Name       string  `json:"name"`
	Type       TagType `json:"type"`
	Value      any     `json:"value"`
}
