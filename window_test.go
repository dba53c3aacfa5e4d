package mapify

import (
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_Window(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		empty  bool
		offset int
		limit  int
	}{
		{"first page", NewWindow(1, 10), false, 0, 10},
		{"third page", NewWindow(3, 25), false, 50, 25},
		{"zero page", NewWindow(0, 10), true, 0, NoLimit},
		{"zero size", NewWindow(2, 0), true, 0, NoLimit},
		{"negative", NewWindow(-1, -1), true, 0, NoLimit},
		{"zero value", Window{}, true, 0, NoLimit},
		{"offset saturates", NewWindow(math.MaxInt/5, 10), false, math.MaxInt, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.window.IsEmpty())
			assert.Equal(t, tt.offset, tt.window.Offset())
			assert.Equal(t, tt.limit, tt.window.Limit())
		})
	}
}

func Test_Window_Validate(t *testing.T) {
	tests := []struct {
		name    string
		window  Window
		invalid bool
	}{
		{"regular page", NewWindow(3, 25), false},
		{"empty window", NewWindow(math.MaxInt, 0), false},
		{"largest offset that fits", NewWindow(math.MaxInt/10+1, 10), false},
		{"offset overflows", NewWindow(math.MaxInt/5, 10), true},
		{"last page of max size", NewWindow(math.MaxInt, MaxLimit), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.invalid {
				require.ErrorIs(t, err, ErrInvalidWindow)
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, tt.window.Offset(), 0)
		})
	}
}

func Test_Window_Apply(t *testing.T) {
	tests := []struct {
		name          string
		window        Window
		expectedQuery string
	}{
		{
			name:          "limit and offset",
			window:        NewWindow(3, 10),
			expectedQuery: "^SELECT \\* FROM " + quoted("users") + " LIMIT 10 OFFSET 20$",
		},
		{
			name:          "first page has no offset",
			window:        NewWindow(1, 5),
			expectedQuery: "^SELECT \\* FROM " + quoted("users") + " LIMIT 5$",
		},
		{
			name:          "empty window selects everything",
			window:        NewWindow(0, 5),
			expectedQuery: "^SELECT \\* FROM " + quoted("users") + "$",
		},
	}

	for _, tt := range tests {
		forEachDialect(t, tt.name, func(t *testing.T, db *gorm.DB, mock sqlmock.Sqlmock) {
			mock.ExpectQuery(tt.expectedQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

			var rows []map[string]any
			err := tt.window.Apply(db.Table("users")).Find(&rows).Error
			require.NoError(t, err)
			assert.Len(t, rows, 1)
		})
	}
}
