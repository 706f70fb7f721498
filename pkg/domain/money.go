package domain

import "fmt"

// Cents is a monetary amount in integer hundredths of the currency unit.
// Integer math keeps threshold comparisons exact; a request valued exactly at
// the audit threshold must not route to audit while one cent more must.
type Cents int64

// CentsFromUnits converts whole currency units to Cents.
func CentsFromUnits(units int64) Cents {
	return Cents(units * 100)
}

func (c Cents) IsNegative() bool { return c < 0 }

// String renders the amount as units with two decimal places.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
