package store

import "github.com/nhle/iboite/internal/model"

// AccountRegistry holds the identity contexts a user can act as.
type AccountRegistry struct {
	accounts []model.Account
	byID     map[string]int
}

// NewAccountRegistry builds a registry from the configured accounts,
// keeping their order.
func NewAccountRegistry(accounts []model.Account) *AccountRegistry {
	r := &AccountRegistry{
		accounts: make([]model.Account, len(accounts)),
		byID:     make(map[string]int, len(accounts)),
	}
	copy(r.accounts, accounts)
	for i, a := range r.accounts {
		r.byID[a.ID] = i
	}
	return r
}

// List returns all accounts.
func (r *AccountRegistry) List() []model.Account {
	out := make([]model.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Get returns the account with the given id.
func (r *AccountRegistry) Get(id string) (model.Account, error) {
	i, ok := r.byID[id]
	if !ok {
		return model.Account{}, &model.NotFoundError{Kind: "account", ID: id}
	}
	return r.accounts[i], nil
}

// Select validates id as the account to act as. Clearing channel state is
// the caller's job.
func (r *AccountRegistry) Select(id string) (model.Account, error) {
	return r.Get(id)
}

// Default returns the first configured account.
func (r *AccountRegistry) Default() (model.Account, bool) {
	if len(r.accounts) == 0 {
		return model.Account{}, false
	}
	return r.accounts[0], true
}

// Next returns the account following id, wrapping around.
func (r *AccountRegistry) Next(id string) (model.Account, bool) {
	if len(r.accounts) == 0 {
		return model.Account{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return r.accounts[0], true
	}
	return r.accounts[(i+1)%len(r.accounts)], true
}
