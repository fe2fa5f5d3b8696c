// Package duration holds exact quarter-length arithmetic.
//
// A quarter length is a *big.Rat where 1 is a quarter note, 1/2 an eighth
// note and 1/12 a triplet thirty-second. Every function returns a fresh
// value so callers never alias a duration owned by a note.
package duration

import (
	"fmt"
	"math/big"
	"strings"
)

func QL(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

func Zero() *big.Rat {
	return new(big.Rat)
}

func ThirtySecond() *big.Rat { return QL(1, 8) }
func Sixteenth() *big.Rat    { return QL(1, 4) }
func Eighth() *big.Rat       { return QL(1, 2) }
func Quarter() *big.Rat      { return QL(1, 1) }

// FromFloat converts exactly; 0.1 becomes 3602879701896397/36028797018963968.
func FromFloat(f float64) *big.Rat {
	return new(big.Rat).SetFloat64(f)
}

// Parse accepts "1/12", "0.375" or "3".
func Parse(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("invalid quarter length %q", s)
	}
	return r, nil
}

func Copy(r *big.Rat) *big.Rat {
	if r == nil {
		return Zero()
	}
	return new(big.Rat).Set(r)
}

func Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func Div(a, b *big.Rat) *big.Rat { return new(big.Rat).Quo(a, b) }

// Scale multiplies r by an integer factor.
func Scale(r *big.Rat, n int64) *big.Rat {
	return new(big.Rat).Mul(r, big.NewRat(n, 1))
}

// Fraction divides r by an integer.
func Fraction(r *big.Rat, n int64) *big.Rat {
	return new(big.Rat).Quo(r, big.NewRat(n, 1))
}

// Pow2 returns 2^-n, the length of each note under n tremolo strokes.
func Pow2(n int) *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), uint(n)))
}

func Sum(rs ...*big.Rat) *big.Rat {
	total := Zero()
	for _, r := range rs {
		total.Add(total, r)
	}
	return total
}

// Floor returns floor(a / b) for non-negative a and positive b.
func Floor(a, b *big.Rat) int64 {
	q := new(big.Rat).Quo(a, b)
	return new(big.Int).Quo(q.Num(), q.Denom()).Int64()
}

func IsZero(r *big.Rat) bool    { return r == nil || r.Sign() == 0 }
func Less(a, b *big.Rat) bool   { return a.Cmp(b) < 0 }
func LessEq(a, b *big.Rat) bool { return a.Cmp(b) <= 0 }
func Equal(a, b *big.Rat) bool  { return a.Cmp(b) == 0 }

// Float is for display and MIDI tick rounding only.
func Float(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

// String renders terminating values as decimals ("0.25", "1.0") and the
// rest as fractions ("1/12").
func String(r *big.Rat) string {
	if r == nil {
		return "0.0"
	}
	den := new(big.Int).Set(r.Denom())
	digits := 0
	two, five := big.NewInt(2), big.NewInt(5)
	mod := new(big.Int)
	for _, f := range []*big.Int{two, five} {
		for {
			q, m := new(big.Int).QuoRem(den, f, mod)
			if m.Sign() != 0 {
				break
			}
			den = q
			digits++
		}
	}
	if den.Cmp(big.NewInt(1)) != 0 {
		return r.RatString()
	}
	s := r.FloatString(digits)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
	}
	if strings.HasSuffix(s, ".") || !strings.Contains(s, ".") {
		s = strings.TrimSuffix(s, ".") + ".0"
	}
	return s
}
