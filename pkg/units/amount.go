// Package units holds token amounts as raw integers with a decimal count.
//
// Arithmetic never panics. An operation on incompatible operands yields a
// zero amount together with an error describing what went wrong, so display
// code can keep rendering while callers that care about correctness check
// the error.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	ErrDecimalsMismatch = errors.New("units: decimals mismatch")
	ErrNegative         = errors.New("units: negative amount")
	ErrDivideByZero     = errors.New("units: divide by zero")
	ErrInvalidNumber    = errors.New("units: invalid number")
)

// MismatchError is returned by arithmetic between amounts of different precision.
type MismatchError struct {
	Op    string
	Left  int
	Right int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("units: %s of %d-decimal and %d-decimal amounts", e.Op, e.Left, e.Right)
}

func (e *MismatchError) Unwrap() error { return ErrDecimalsMismatch }

// ParseError is returned when a decimal string cannot be turned into an amount.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string { return fmt.Sprintf("units: parse %q: %v", e.Input, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Amount is an unsigned token quantity: Raw / 10^Decimals units of Mint.
// The zero value is a valid zero amount with no decimals.
type Amount struct {
	raw      *big.Int
	decimals int
	mint     solana.PublicKey
}

// New wraps a raw integer. The integer is copied; nil and negative values
// become zero.
func New(raw *big.Int, decimals int, mint solana.PublicKey) Amount {
	v := new(big.Int)
	if raw != nil && raw.Sign() > 0 {
		v.Set(raw)
	}
	return Amount{raw: v, decimals: decimals, mint: mint}
}

func FromUint64(raw uint64, decimals int, mint solana.PublicKey) Amount {
	return Amount{raw: new(big.Int).SetUint64(raw), decimals: decimals, mint: mint}
}

func Zero(decimals int, mint solana.PublicKey) Amount {
	return Amount{raw: new(big.Int), decimals: decimals, mint: mint}
}

// Parse reads a human-readable decimal string such as "1,234.5" or "1.5e3".
// Thousands separators are dropped, scientific notation is normalized, and a
// fraction finer than decimals is rounded half away from zero.
func Parse(s string, decimals int, mint solana.PublicKey) (Amount, error) {
	clean := strings.NewReplacer(",", "", "_", "", " ", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Zero(decimals, mint), &ParseError{Input: s, Err: ErrInvalidNumber}
	}
	if d.IsNegative() {
		return Zero(decimals, mint), &ParseError{Input: s, Err: ErrNegative}
	}
	raw := d.Round(int32(decimals)).Shift(int32(decimals)).BigInt()
	return Amount{raw: raw, decimals: decimals, mint: mint}, nil
}

func (a Amount) rawOrZero() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return a.raw
}

// Raw returns a copy of the underlying integer.
func (a Amount) Raw() *big.Int { return new(big.Int).Set(a.rawOrZero()) }

func (a Amount) Decimals() int { return a.decimals }
func (a Amount) Mint() solana.PublicKey { return a.mint }
func (a Amount) IsZero() bool { return a.rawOrZero().Sign() == 0 }
func (a Amount) Cmp(b Amount) int { return a.rawOrZero().Cmp(b.rawOrZero()) }
func (a Amount) Lt(b Amount) bool { return a.Cmp(b) < 0 }
func (a Amount) Gt(b Amount) bool { return a.Cmp(b) > 0 }
func (a Amount) Eq(b Amount) bool { return a.Cmp(b) == 0 }
func (a Amount) WithMint(m solana.PublicKey) Amount { return Amount{raw: a.Raw(), decimals: a.decimals, mint: m} }

func (a Amount) same(op string, b Amount) error {
	if a.decimals != b.decimals {
		return &MismatchError{Op: op, Left: a.decimals, Right: b.decimals}
	}
	return nil
}

func (a Amount) zero() Amount { return Zero(a.decimals, a.mint) }

func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.same("add", b); err != nil {
		return a.zero(), err
	}
	return Amount{raw: new(big.Int).Add(a.rawOrZero(), b.rawOrZero()), decimals: a.decimals, mint: a.mint}, nil
}

// Sub fails soft with ErrNegative when b exceeds a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.same("sub", b); err != nil {
		return a.zero(), err
	}
	v := new(big.Int).Sub(a.rawOrZero(), b.rawOrZero())
	if v.Sign() < 0 {
		return a.zero(), fmt.Errorf("%w: %s - %s", ErrNegative, a, b)
	}
	return Amount{raw: v, decimals: a.decimals, mint: a.mint}, nil
}

// Mul is fixed-point multiplication: the product is rescaled to a's decimals.
func (a Amount) Mul(b Amount) (Amount, error) {
	if err := a.same("mul", b); err != nil {
		return a.zero(), err
	}
	v := new(big.Int).Mul(a.rawOrZero(), b.rawOrZero())
	v.Quo(v, pow10(a.decimals))
	return Amount{raw: v, decimals: a.decimals, mint: a.mint}, nil
}

// Div is fixed-point division truncated toward zero.
func (a Amount) Div(b Amount) (Amount, error) {
	if err := a.same("div", b); err != nil {
		return a.zero(), err
	}
	if b.IsZero() {
		return a.zero(), ErrDivideByZero
	}
	v := new(big.Int).Mul(a.rawOrZero(), pow10(a.decimals))
	v.Quo(v, b.rawOrZero())
	return Amount{raw: v, decimals: a.decimals, mint: a.mint}, nil
}

// MulDiv returns a * num / den on the raw integer, truncated. It is used for
// scaled exchange-rate conversions and keeps a's decimals and mint.
func (a Amount) MulDiv(num, den *big.Int) (Amount, error) {
	if den == nil || den.Sign() == 0 {
		return a.zero(), ErrDivideByZero
	}
	if num == nil || num.Sign() < 0 || den.Sign() < 0 {
		return a.zero(), fmt.Errorf("%w: rate %v/%v", ErrNegative, num, den)
	}
	x, xo := uint256.FromBig(a.rawOrZero())
	y, yo := uint256.FromBig(num)
	d, do := uint256.FromBig(den)
	if !xo && !yo && !do {
		if z, overflow := new(uint256.Int).MulDivOverflow(x, y, d); !overflow {
			return Amount{raw: z.ToBig(), decimals: a.decimals, mint: a.mint}, nil
		}
	}
	v := new(big.Int).Mul(a.rawOrZero(), num)
	v.Quo(v, den)
	return Amount{raw: v, decimals: a.decimals, mint: a.mint}, nil
}

// Decimal converts to an exact decimal for downstream valuation math.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.rawOrZero(), -int32(a.decimals))
}

// Text renders the amount without grouping, e.g. "1234.5".
func (a Amount) Text() string {
	whole, frac := a.split()
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// String renders the amount with thousands separators, e.g. "1,234.5".
// The split is done on the decimal string so no precision is lost.
func (a Amount) String() string {
	whole, frac := a.split()
	w, _ := new(big.Int).SetString(whole, 10)
	out := humanize.BigComma(w)
	if frac != "" {
		out += "." + frac
	}
	return out
}

func (a Amount) split() (string, string) {
	s := a.rawOrZero().String()
	if a.decimals <= 0 {
		return s, ""
	}
	if len(s) <= a.decimals {
		s = strings.Repeat("0", a.decimals-len(s)+1) + s
	}
	cut := len(s) - a.decimals
	return s[:cut], strings.TrimRight(s[cut:], "0")
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
