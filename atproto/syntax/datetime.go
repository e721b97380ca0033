package syntax

import (
	"time"
)

// Preferred atproto Datetime string syntax, for use with [time.Format].
const AtprotoDatetimeLayout = "2006-01-02T15:04:05.999Z"

// Datetime in the string format used for record "createdAt" fields.
type Datetime string

// Creates a new Datetime string matching the current time, in preferred syntax.
func DatetimeNow() Datetime {
	return Datetime(time.Now().UTC().Format(AtprotoDatetimeLayout))
}

func (d Datetime) String() string {
	return string(d)
}
