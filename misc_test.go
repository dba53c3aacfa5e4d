package mapify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// tUser is the source model of the tests, stored in the "users" table.
type tUser struct {
	ID        uint
	Name      string
	Email     string
	Age       int
	CreatedAt time.Time
}

func (tUser) TableName() string {
	return "users"
}

// tUserView is the target shape most tests project tUser onto.
type tUserView struct {
	ID   uint
	Name string
	Age  int
}

const (
	// _arg matches a bind placeholder of both dialects.
	_arg = `(?:\$\d+|\?)`
)

// quoted matches an identifier quoted by either dialect.
func quoted(name string) string {
	return "[`\"]" + name + "[`\"]"
}

var (
	_fromUsers = " FROM " + quoted("users")
	// _selectView matches the projection of tUser onto tUserView.
	_selectView = "^SELECT " +
		quoted("users") + `\.` + quoted("id") + "," +
		quoted("users") + `\.` + quoted("name") + "," +
		quoted("users") + `\.` + quoted("age") +
		_fromUsers
	_countUsers = `^SELECT count\(\*\)` + _fromUsers
)

func newViewRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "age"})
}

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

// forEachDialect runs fn against a fresh mock of every supported dialect.
func forEachDialect(t *testing.T, name string, fn func(t *testing.T, db *gorm.DB, mock sqlmock.Sqlmock)) {
	t.Helper()

	sqlMockFnList := []func() (string, *gorm.DB, sqlmock.Sqlmock, error){
		newGORMMySQLMock,
		newGORMPostgresMock,
	}

	for _, sqlMockFn := range sqlMockFnList {
		dialect, db, dbMock, err := sqlMockFn()
		t.Run(fmt.Sprintf("%s %s", dialect, name), func(t *testing.T) {
			require.NoError(t, err, "gorm open")

			fn(t, db, dbMock)

			require.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

// newTestShape binds T without a database, using the default naming strategy.
func newTestShape[T any](t *testing.T, mapping ColumnMapping) *shape[T] {
	t.Helper()

	sch, err := schema.Parse(new(T), &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	return &shape[T]{schema: sch, mapping: mapping}
}
