package harmonics

import "fmt"

// factorialTable holds n! for n in [0, 20]. The largest entry, 20!, is
// reached by the normalization factor of degree 10, order 10, and is still
// exactly representable as a float64.
var factorialTable = [21]float64{
	1,
	1,
	2,
	6,
	24,
	120,
	720,
	5040,
	40320,
	362880,
	3628800,
	39916800,
	479001600,
	6227020800,
	87178291200,
	1307674368000,
	20922789888000,
	355687428096000,
	6402373705728000,
	121645100408832000,
	2432902008176640000,
}

// Factorial returns n! from a fixed lookup table covering n in [0, 20].
// Arguments outside that range return ErrFactorialRange; the table is the
// only factorial source, nothing is computed on the fly.
func Factorial(n int) (float64, error) {
	if n < 0 || n >= len(factorialTable) {
		return 0, fmt.Errorf("factorial of %d: %w", n, ErrFactorialRange)
	}
	return factorialTable[n], nil
}
