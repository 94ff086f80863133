package employee

import "time"

// TimestampFormat is the ISO-8601 UTC layout used for createdAt and updatedAt.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// ListLimit caps the number of records returned by List.
const ListLimit = 100

// Employee is the stored record. The json and dynamodbav names are the
// persisted attribute names.
type Employee struct {
	ID        string `json:"employee_id" dynamodbav:"employee_id"`
	Name      string `json:"name" dynamodbav:"name"`
	Role      string `json:"role,omitempty" dynamodbav:"role,omitempty"`
	OwnerID   string `json:"ownerId,omitempty" dynamodbav:"ownerId,omitempty"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Changes is a partial update. Nil fields are left untouched; UpdatedAt is
// always written.
type Changes struct {
	Name      *string
	Role      *string
	UpdatedAt string
}

// Timestamp formats t in TimestampFormat.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
