package comment

import "time"

// TimeLayout is the wire and page format of CreatedAt (always UTC).
const TimeLayout = "2006-01-02 15:04:05"

// Comment is the only persisted entity of the board. It is created once by a
// repository and never mutated afterwards.
type Comment struct {
	ID        int64     `json:"id" db:"id" bson:"_id"`
	Content   string    `json:"content" db:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// CreatedAtString formats CreatedAt as YYYY-MM-DD HH:MM:SS in UTC.
func (c *Comment) CreatedAtString() string {
	return c.CreatedAt.UTC().Format(TimeLayout)
}
