// Package memory keeps every entity in process memory. It backs tests and
// runs without a database when no dsn is configured.
package memory

type Storage struct {
	Accounts *Accounts
	Contents *Contents
	ViewLogs *ViewLogs
}

func New() *Storage {
	return &Storage{
		Accounts: NewAccounts(),
		Contents: NewContents(),
		ViewLogs: NewViewLogs(),
	}
}
