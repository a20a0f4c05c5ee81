package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

var canonicalNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// Numeric holds the text of a numeric form field exactly as entered.
// It decodes from a JSON number or string and encodes as a JSON number
// whenever the text is a canonical decimal.
type Numeric string

func NumericOf(v float64) Numeric {
	return Numeric(strconv.FormatFloat(v, 'f', -1, 64))
}

// Canonical reports whether the text is a plain decimal without a
// leading zero ("0", "12", "1500.50" but not "01" or "1e3").
func (n Numeric) Canonical() bool {
	return canonicalNumber.MatchString(string(n))
}

func (n Numeric) Float() (float64, bool) {
	if !n.Canonical() {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(n), 64)
	return f, err == nil
}

func (n Numeric) Int() (int, bool) {
	if !n.Canonical() {
		return 0, false
	}
	i, err := strconv.Atoi(string(n))
	return i, err == nil
}

func (n Numeric) String() string { return string(n) }

func (n Numeric) MarshalJSON() ([]byte, error) {
	if n.Canonical() {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeric field: %w", err)
	}
	*n = Numeric(num.String())
	return nil
}
