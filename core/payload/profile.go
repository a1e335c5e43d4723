package payload

// Profile identifies the payee. It is loaded once from configuration and
// never changed at runtime.
type Profile struct {
	// Name is the legal name of the payee.
	Name string `mapstructure:"name" default:"OOO Payee"`
	// PersonalAcc is the settlement account number.
	PersonalAcc string `mapstructure:"personal_acc" default:"40702810900000000001"`
	// BankName is the name of the payee's bank.
	BankName string `mapstructure:"bank_name" default:"Bank"`
	// BIC is the bank identification code.
	BIC string `mapstructure:"bic" default:"044525000"`
	// CorrespAcc is the bank's correspondent account.
	CorrespAcc string `mapstructure:"corresp_acc" default:"30101810400000000225"`
	// PayeeINN is the payee's taxpayer number.
	PayeeINN string `mapstructure:"inn" default:"7700000000"`
	// KPP is the payee's tax registration reason code.
	KPP string `mapstructure:"kpp" default:""`
	// Address is the payee's legal address.
	Address string `mapstructure:"address" default:""`
}
