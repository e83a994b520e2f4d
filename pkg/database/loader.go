package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"fab-weekly/pkg/models"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

var tableNameRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Driver returns the database/sql driver name that serves dsn.
func Driver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverMySQL
}

// Open accepts postgres://, mariadb:// and mysql:// URLs as well as native
// MySQL DSNs. The returned DSN is for logging and has the password masked.
func Open(dsn string) (*sql.DB, string, error) {
	driver := Driver(dsn)
	native, shown := dsn, ""
	if driver == DriverPostgres {
		u, err := url.Parse(dsn)
		if err != nil {
			return nil, "", fmt.Errorf("parse dsn: %w", err)
		}
		shown = u.Redacted()
	} else {
		mysqlDSN, err := toMySQLDSN(dsn)
		if err != nil {
			return nil, "", err
		}
		native, shown = mysqlDSN, redact(mysqlDSN)
	}

	db, err := sql.Open(driver, native)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, shown, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// redact hides the password of a native DSN for logging.
func redact(mysqlDSN string) string {
	at := strings.LastIndex(mysqlDSN, "@")
	colon := strings.Index(mysqlDSN, ":")
	if at < 0 || colon < 0 || colon > at {
		return mysqlDSN
	}
	return mysqlDSN[:colon+1] + "***" + mysqlDSN[at:]
}

// Source reads the two sheets from tables mirrored into MySQL/MariaDB or
// PostgreSQL.
type Source struct {
	db           *sql.DB
	textType     string
	formsTable   string
	batchesTable string
}

// NewSource takes the driver name Open used for db.
func NewSource(db *sql.DB, driver, formsTable, batchesTable string) (*Source, error) {
	for _, t := range []string{formsTable, batchesTable} {
		if !tableNameRE.MatchString(t) {
			return nil, fmt.Errorf("invalid table name %q", t)
		}
	}
	textType := "CHAR"
	if driver == DriverPostgres {
		textType = "TEXT"
	}
	return &Source{db: db, textType: textType, formsTable: formsTable, batchesTable: batchesTable}, nil
}

// FormResponses reads every row of the form responses table. Contact
// columns are not selected. submitted_at is cast to text so DATETIME and
// VARCHAR mirrors both come back as "2006-01-02 15:04:05".
func (s *Source) FormResponses(ctx context.Context) ([]models.FormResponse, error) {
	q := fmt.Sprintf(`
		SELECT order_id, CAST(submitted_at AS %s), course, fabrication_type, order_status
		FROM %s
		ORDER BY submitted_at
	`, s.textType, s.formsTable)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.formsTable, err)
	}
	defer rows.Close()

	var out []models.FormResponse
	for rows.Next() {
		var (
			orderID, submitted, course, fab, status sql.NullString
		)
		if err := rows.Scan(&orderID, &submitted, &course, &fab, &status); err != nil {
			return nil, err
		}
		out = append(out, models.FormResponse{
			OrderID:         orderID.String,
			Timestamp:       submitted.String,
			Course:          course.String,
			FabricationType: fab.String,
			OrderStatus:     status.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PrintBatches reads every row of the print batches table. material_qty is
// read as text; the join decides what an unreadable amount means.
func (s *Source) PrintBatches(ctx context.Context) ([]models.PrintBatch, error) {
	q := fmt.Sprintf(`
		SELECT batch_id, order_id, status, CAST(material_qty AS %s)
		FROM %s
	`, s.textType, s.batchesTable)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.batchesTable, err)
	}
	defer rows.Close()

	var out []models.PrintBatch
	for rows.Next() {
		var batchID, orderID, status, qty sql.NullString
		if err := rows.Scan(&batchID, &orderID, &status, &qty); err != nil {
			return nil, err
		}
		out = append(out, models.PrintBatch{
			BatchID:     batchID.String,
			OrderID:     orderID.String,
			Status:      status.String,
			MaterialQty: qty.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
