package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

// Positive panics if n is not greater than zero, name is used in the message.
func Positive(name string, n float64) {
	if n <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %v", name, n))
	}
}
