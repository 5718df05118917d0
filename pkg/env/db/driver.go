package db

const (
	driverMySQL      = "mysql"
	driverPostgreSQL = "pgx"
	driverSQLite     = "sqlite"

	driverMySQLPort      = 3306
	driverPostgreSQLPort = 5432

	driverMySQLFormat      = `%s:%s@tcp(%s:%d)/%s`
	driverPostgreSQLFormat = `postgres://%s:%s@%s:%d/%s`
	driverSQLiteFormat     = `%s`
)

type DriverType string

func (t DriverType) String() string {
	return t.Name()
}

func (t DriverType) Name() string {
	switch t {
	case "mysql":
		return driverMySQL
	case "postgresql", "postgres", "pgx":
		return driverPostgreSQL
	case "sqlite", "sqlite3":
		return driverSQLite
	default:
		return ""
	}
}

func (t DriverType) Port() int {
	switch t.Name() {
	case driverMySQL:
		return driverMySQLPort
	case driverPostgreSQL:
		return driverPostgreSQLPort
	default:
		return 0
	}
}

func (t DriverType) Format() string {
	switch t.Name() {
	case driverMySQL:
		return driverMySQLFormat
	case driverPostgreSQL:
		return driverPostgreSQLFormat
	case driverSQLite:
		return driverSQLiteFormat
	default:
		return ""
	}
}

// IsNetwork reports whether the driver connects to a database server, as
// opposed to opening a local file.
func (t DriverType) IsNetwork() bool {
	return t.Port() != 0
}

func (t DriverType) IsValid() bool {
	return t.Name() != ""
}
