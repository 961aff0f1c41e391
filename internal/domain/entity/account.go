package entity

import (
	"strings"

	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
)

// Age bounds enforced for every account profile. The store carries a matching
// CHECK constraint; the entity validates first so bad input never reaches it.
const (
	MinAge = 18
	MaxAge = 120
)

// Account represents a bank account credential record. The account number is
// assigned by the store on insertion and is immutable afterwards, as is the
// username.
type Account struct {
	AccountNumber uint64
	Username      string
	Password      string // bcrypt hash, never the plaintext
	Admin         bool
}

// Profile holds the personal data tied 1:1 to an account. Balance is kept in
// cents to avoid floating point drift.
type Profile struct {
	AccountNumber uint64
	Name          string
	Age           int
	Balance       int64
}

// AccountSummary is the flattened account+profile row returned to admins.
type AccountSummary struct {
	AccountNumber uint64
	Username      string
	Admin         bool
	Name          string
	Balance       int64
	Age           int
}

// NewAccount validates the creation inputs and returns an account/profile
// pair with a zero balance. The password must already be hashed by the caller.
func NewAccount(username, passwordHash, name string, age int, admin bool) (*Account, *Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, errs.ErrInvalidUsername
	}
	if passwordHash == "" {
		return nil, nil, errs.ErrInvalidPassword
	}
	if age < MinAge || age > MaxAge {
		return nil, nil, errs.ErrInvalidAge
	}

	account := &Account{
		Username: username,
		Password: passwordHash,
		Admin:    admin,
	}
	profile := &Profile{
		Name:    name,
		Age:     age,
		Balance: 0,
	}
	return account, profile, nil
}

// CanDeduct reports whether the profile balance covers a deduction of the
// given amount in cents.
func (p *Profile) CanDeduct(amountInCents int64) bool {
	return p.Balance >= amountInCents
}
