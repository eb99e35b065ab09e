package postgres

// Shared with the postgres_test workflow suite.
var (
	SetupPostgres = setupPostgres
	TestLogger    = testLogger
)
