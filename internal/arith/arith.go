// Package arith holds small numeric helpers exercised by the test suite.
package arith

// Number is any built-in integer or floating point type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// AddNumbers returns a + b.
func AddNumbers[T Number](a, b T) T {
	return a + b
}
