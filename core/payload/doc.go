// Package payload encodes a reconciled amount triple into QR payload text.
//
// Three formats are supported and cycle in a fixed order:
//
//   - FastPayment: ST00012|Name=...|PersonalAcc=...|BankName=...|BIC=...|CorrespAcc=...|PayeeINN=...|Sum=...|Purpose=...
//   - BankTransfer: BT01|INN|Account|BIC|CorrespAcc|Sum|Purpose|Name
//   - PlainText: a readable sentence, not meant to be parsed.
//
// Sum is always the RUB amount in integer minor units, truncated. Scanners
// parse it as kopecks, so it must never carry a decimal point.
//
// All functions are pure; nothing here performs I/O.
package payload
