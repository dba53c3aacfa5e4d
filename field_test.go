package mapify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

// Audit is exported since GORM skips unexported embedded structs.
type Audit struct {
	CreatedBy string
	UpdatedAt time.Time
}

type tOrderView struct {
	ID     uint
	Number string
	Total  float64
	Note   *string
	Audit
	Meta struct{ Hidden int } `gorm:"-"`
}

func Test_FieldRef_resolve(t *testing.T) {
	s := newTestShape[tOrderView](t, nil)

	tests := []struct {
		name    string
		resolve func(s *shape[tOrderView]) (column, error)
		want    string
		wantErr error
	}{
		{
			name:    "top-level field",
			resolve: Field(func(v *tOrderView) *string { return &v.Number }).resolve,
			want:    "number",
		},
		{
			name:    "pointer field",
			resolve: Field(func(v *tOrderView) **string { return &v.Note }).resolve,
			want:    "note",
		},
		{
			name:    "embedded field",
			resolve: Field(func(v *tOrderView) *time.Time { return &v.UpdatedAt }).resolve,
			want:    "updated_at",
		},
		{
			name:    "ignored field",
			resolve: Field(func(v *tOrderView) *int { return &v.Meta.Hidden }).resolve,
			wantErr: ErrInvalidSelector,
		},
		{
			name:    "address outside the sample",
			resolve: Field(func(*tOrderView) *float64 { return new(float64) }).resolve,
			wantErr: ErrInvalidSelector,
		},
		{
			name:    "nil result",
			resolve: Field(func(*tOrderView) *uint { return nil }).resolve,
			wantErr: ErrInvalidSelector,
		},
		{
			name:    "nil selector",
			resolve: FieldRef[tOrderView, uint]{}.resolve,
			wantErr: ErrInvalidSelector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.resolve(s)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.name)
			assert.NotNil(t, got.field)
		})
	}
}

func Test_Predicate_expression(t *testing.T) {
	s := newTestShape[tOrderView](t, nil)

	number := Field(func(v *tOrderView) *string { return &v.Number })
	total := Field(func(v *tOrderView) *float64 { return &v.Total })
	note := Field(func(v *tOrderView) **string { return &v.Note })

	numberCol := clause.Column{Name: "number"}
	totalCol := clause.Column{Name: "total"}
	noteCol := clause.Column{Name: "note"}

	tests := []struct {
		name      string
		predicate Predicate[tOrderView]
		want      clause.Expression
	}{
		{
			name:      "zero predicate",
			predicate: Predicate[tOrderView]{},
			want:      nil,
		},
		{
			name:      "eq",
			predicate: number.Eq("A-1"),
			want:      clause.Eq{Column: numberCol, Value: "A-1"},
		},
		{
			name:      "ne",
			predicate: number.Ne("A-1"),
			want:      clause.Neq{Column: numberCol, Value: "A-1"},
		},
		{
			name:      "range",
			predicate: And(total.Gte(10), total.Lt(20)),
			want:      clause.And(clause.Gte{Column: totalCol, Value: 10.0}, clause.Lt{Column: totalCol, Value: 20.0}),
		},
		{
			name:      "in",
			predicate: number.In("A-1", "A-2"),
			want:      clause.IN{Column: numberCol, Values: []any{"A-1", "A-2"}},
		},
		{
			name:      "null",
			predicate: note.IsNull(),
			want:      clause.Eq{Column: noteCol, Value: nil},
		},
		{
			name:      "not null",
			predicate: note.IsNotNull(),
			want:      clause.Neq{Column: noteCol, Value: nil},
		},
		{
			name:      "contains escapes wildcards",
			predicate: number.Contains("10%"),
			want:      clause.Expr{SQL: "? LIKE ? ESCAPE '!'", Vars: []any{numberCol, "%10!%%"}},
		},
		{
			name:      "starts with",
			predicate: number.StartsWith("A-"),
			want:      clause.Expr{SQL: "? LIKE ? ESCAPE '!'", Vars: []any{numberCol, "A-%"}},
		},
		{
			name:      "ends with",
			predicate: number.EndsWith("-1"),
			want:      clause.Expr{SQL: "? LIKE ? ESCAPE '!'", Vars: []any{numberCol, "%-1"}},
		},
		{
			name:      "or",
			predicate: Or(number.Eq("A-1"), total.Gt(5)),
			want:      clause.Or(clause.Eq{Column: numberCol, Value: "A-1"}, clause.Gt{Column: totalCol, Value: 5.0}),
		},
		{
			name:      "not",
			predicate: Not(total.Lte(5)),
			want:      clause.Not(clause.Lte{Column: totalCol, Value: 5.0}),
		},
		{
			name:      "empty members are skipped",
			predicate: And(Predicate[tOrderView]{}, number.Eq("A-1"), Not(Predicate[tOrderView]{})),
			want:      clause.Eq{Column: numberCol, Value: "A-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.predicate.expression(s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Predicate_ErrorPropagates(t *testing.T) {
	s := newTestShape[tOrderView](t, nil)

	broken := Field(func(*tOrderView) *uint { return nil }).Eq(1)
	number := Field(func(v *tOrderView) *string { return &v.Number })

	_, err := Or(number.Eq("A-1"), Not(broken)).expression(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSelector))
}
