package bank

// Customer is a natural person identified by CPF. A customer owns its
// accounts and at most one loan record; the account back-reference to its
// owner is non-owning, lifetime is governed by the Service registry.
type Customer struct {
	Name      string     `json:"name"`
	CPF       string     `json:"cpf"`
	BirthDate string     `json:"birth_date"`
	Address   string     `json:"address"`
	Accounts  []*Account `json:"-"`
	Loan      *Loan      `json:"-"`
}

// Primary returns the customer's first account, the implicit target of
// single-account operations, or nil when the customer has none.
func (c *Customer) Primary() *Account {
	if len(c.Accounts) == 0 {
		return nil
	}
	return c.Accounts[0]
}

// Perform runs a transaction against one of the customer's accounts.
func (c *Customer) Perform(a *Account, t Transaction) error {
	return t.Apply(a)
}
