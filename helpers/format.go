package helpers

import "fmt"

// FormatIndian formats a count using Indian digit grouping (lakh/crore):
// the last three digits group together, every two digits after that.
// 12345678 -> "1,23,45,678"
func FormatIndian(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%d", value)
	length := len(str)

	if length <= 3 {
		if negative {
			return "-" + str
		}
		return str
	}

	head := str[:length-3]
	tail := str[length-3:]

	var grouped string
	for i, digit := range head {
		if i > 0 && (len(head)-i)%2 == 0 {
			grouped += ","
		}
		grouped += string(digit)
	}

	result := grouped + "," + tail
	if negative {
		return "-" + result
	}
	return result
}
