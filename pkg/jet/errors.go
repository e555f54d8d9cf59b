package jet

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrAccountNotFound   = errors.New("jet: account not found")
	ErrWrongOwner        = errors.New("jet: account owned by unexpected program")
	ErrReserveMismatch   = errors.New("jet: reserve does not match market slot")
	ErrDerivedMismatch   = errors.New("jet: stored address differs from derived address")
	ErrOutOfRange        = errors.New("jet: value outside interpolation range")
	ErrInvalidConfig     = errors.New("jet: invalid reserve config")
	ErrInvalidDeployment = errors.New("jet: invalid deployment")
	ErrNilMarket         = errors.New("jet: nil market")
)

// IntegrityError reports that the reserve records handed to the valuation
// engine do not line up with the market's reserve slots.
type IntegrityError struct {
	Slot     int
	Expected solana.PublicKey
	Got      solana.PublicKey
	Reason   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("jet: reserve slot %d: %s (market has %s, got %s)", e.Slot, e.Reason, e.Expected, e.Got)
}

func (e *IntegrityError) Unwrap() error { return ErrReserveMismatch }

// OwnerError is returned when a fetched account is not owned by the expected program.
type OwnerError struct {
	Account  solana.PublicKey
	Owner    solana.PublicKey
	Expected solana.PublicKey
}

func (e *OwnerError) Error() string {
	return fmt.Sprintf("jet: account %s owned by %s, expected %s", e.Account, e.Owner, e.Expected)
}

func (e *OwnerError) Unwrap() error { return ErrWrongOwner }
