package usecase

const (
	// DefaultMaxAccountsPerUser caps how many accounts a single user may open.
	DefaultMaxAccountsPerUser = 5
)

// Operation names reported to the Recorder and in logs.
const (
	OpRegisterUser      = "register_user"
	OpCreateAccount     = "create_account"
	OpDeposit           = "deposit"
	OpWithdraw          = "withdraw"
	OpConvertBalance    = "convert_balance"
	OpDeactivateAccount = "deactivate_account"
)
