package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

const (
	// HashMaskPositiveInt64 keeps advisory lock keys in the positive int64 range
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF

	// PlayerLockNamespace prefixes player ids before hashing them into lock keys
	PlayerLockNamespace = "player:"
)

// SQL Query Constants
const (
	// SQLAdvisoryLock serializes all writes of one player until the transaction ends
	SQLAdvisoryLock = "SELECT pg_advisory_xact_lock($1)"

	SQLSpend = `
		UPDATE player_balances
		SET amount = amount - $3
		WHERE player_id = $1 AND currency = $2 AND amount >= $3
		RETURNING amount
	`

	SQLSelectBalance = `
		SELECT COALESCE((SELECT amount FROM player_balances WHERE player_id = $1 AND currency = $2), 0)
	`

	SQLCredit = `
		INSERT INTO player_balances (player_id, currency, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, currency) DO UPDATE
		SET amount = player_balances.amount + EXCLUDED.amount
	`

	SQLSelectBalances = `SELECT currency, amount FROM player_balances WHERE player_id = $1`

	SQLInsertItem = `
		INSERT INTO player_items (player_id, item_id, acquired_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (player_id, item_id) DO NOTHING
	`

	SQLSelectPity = `
		SELECT epic_pity, legendary_pity, total_pulls, updated_at
		FROM pity_ledgers
		WHERE player_id = $1 AND pool_type = $2
	`

	SQLUpsertPity = `
		INSERT INTO pity_ledgers (player_id, pool_type, epic_pity, legendary_pity, total_pulls, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id, pool_type) DO UPDATE
		SET epic_pity = EXCLUDED.epic_pity,
		    legendary_pity = EXCLUDED.legendary_pity,
		    total_pulls = EXCLUDED.total_pulls,
		    updated_at = EXCLUDED.updated_at
	`

	SQLSelectFreeSpin = `
		SELECT last_free_spin_at, consecutive_days
		FROM free_spin_states
		WHERE player_id = $1
	`

	SQLUpsertFreeSpin = `
		INSERT INTO free_spin_states (player_id, last_free_spin_at, consecutive_days)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id) DO UPDATE
		SET last_free_spin_at = EXCLUDED.last_free_spin_at,
		    consecutive_days = EXCLUDED.consecutive_days
	`

	sqlJackpotColumns = `wheel_id, current_amount, base_amount, COALESCE(last_winner_id, ''), COALESCE(last_win_amount, 0), last_win_time`

	SQLSelectJackpot = `SELECT ` + sqlJackpotColumns + ` FROM jackpot_pools WHERE wheel_id = $1`

	SQLSelectJackpotForUpdate = SQLSelectJackpot + ` FOR UPDATE`

	SQLContributeJackpot = `
		UPDATE jackpot_pools
		SET current_amount = current_amount + $2
		WHERE wheel_id = $1
		RETURNING ` + sqlJackpotColumns

	SQLResetJackpot = `
		UPDATE jackpot_pools
		SET current_amount = base_amount,
		    last_winner_id = $2,
		    last_win_amount = $3,
		    last_win_time = $4
		WHERE wheel_id = $1
		RETURNING ` + sqlJackpotColumns

	SQLEnsureJackpot = `
		INSERT INTO jackpot_pools (wheel_id, current_amount, base_amount)
		VALUES ($1, $2, $2)
		ON CONFLICT (wheel_id) DO NOTHING
	`

	SQLInsertPullRecord = `
		INSERT INTO pull_records (id, player_id, pool_type, banner_id, item_id, rarity, was_featured, pull_index, was_pity_triggered, attempt_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
	`

	SQLListPullRecords = `
		SELECT id, player_id, pool_type, banner_id, item_id, rarity, was_featured, pull_index, was_pity_triggered, COALESCE(attempt_id, ''), created_at
		FROM pull_records
		WHERE player_id = $1
		ORDER BY created_at DESC, pull_index DESC
		LIMIT $2
	`

	SQLSelectAttempt = `
		SELECT operation, response, created_at
		FROM reward_attempts
		WHERE player_id = $1 AND attempt_id = $2
	`

	SQLInsertAttempt = `
		INSERT INTO reward_attempts (player_id, attempt_id, operation, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
)

// Error Messages
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToLockPlayer        = "failed to lock player"
	ErrMsgFailedToSpend             = "failed to spend"
	ErrMsgFailedToCredit            = "failed to credit"
	ErrMsgFailedToGetBalances       = "failed to get balances"
	ErrMsgFailedToInsertItem        = "failed to insert item"
	ErrMsgFailedToGetPity           = "failed to get pity ledger"
	ErrMsgFailedToUpsertPity        = "failed to upsert pity ledger"
	ErrMsgFailedToGetFreeSpin       = "failed to get free spin state"
	ErrMsgFailedToUpsertFreeSpin    = "failed to upsert free spin state"
	ErrMsgFailedToGetJackpot        = "failed to get jackpot"
	ErrMsgFailedToUpdateJackpot     = "failed to update jackpot"
	ErrMsgFailedToEnsureJackpot     = "failed to ensure jackpot"
	ErrMsgFailedToInsertPullRecord  = "failed to insert pull record"
	ErrMsgFailedToListPullRecords   = "failed to list pull records"
	ErrMsgFailedToGetAttempt        = "failed to get attempt"
	ErrMsgFailedToSaveAttempt       = "failed to save attempt"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)
