/*
Package payload generates synthetic payloads of a given semantic type.

Generators perform no I/O: they only consume entropy from an explicitly passed
rand.Source, plus the wall clock for timestamped payloads.

Example:

	gen, err := payload.New(model.PayloadFinancialTransaction)
	if err != nil {
		return err
	}
	data, err := gen.Generate(rand.New(42))
*/
package payload
