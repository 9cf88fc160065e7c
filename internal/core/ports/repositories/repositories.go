package repositories

// Counter names used with CounterRepository.NextSequence.
const (
	CashRecordCounter = "cash_records"
	USDTRecordCounter = "usdt_records"
	ClientCounter     = "clients"
)
