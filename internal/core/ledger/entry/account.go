package entry

// AccountRoot holds the native value balance for one address. Records
// carry one too: the listing fee paid at sell time sits on the record's
// own derived address until redeem or buy pays it out.
type AccountRoot struct {
	Balance uint64
}

func (a *AccountRoot) Type() Type {
	return TypeAccountRoot
}

// Serialize returns the binary form of the account root.
func (a *AccountRoot) Serialize() ([]byte, error) {
	return encode(a)
}

// ParseAccountRoot decodes an account root from its binary form.
func ParseAccountRoot(data []byte) (*AccountRoot, error) {
	var a AccountRoot
	if err := decode(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
