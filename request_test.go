package mapify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_IsNormalizedLimitMax(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		max      int
		want     int
		isStrict bool
	}{
		{"zero uses default", 0, 50, DefaultLimit, false},
		{"negative uses default", -10, 50, DefaultLimit, false},
		{"within max unchanged", 7, 50, 7, true},
		{"equal max unchanged", 50, 50, 50, true},
		{"above max clamped", 51, 50, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strict := IsNormalizedLimitMax(tt.limit, tt.max)
			if got != tt.want || strict != tt.isStrict {
				t.Errorf("%s: got=(%d,%v) want=(%d,%v)", tt.name, got, strict, tt.want, tt.isStrict)
			}
		})
	}
}

func Test_NormalizeLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero -> default", 0, DefaultLimit},
		{"negative -> default", -1, DefaultLimit},
		{"clamp to MaxLimit", MaxLimit + 1, MaxLimit},
		{"keep when ok", 17, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLimit(tt.limit); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}

func Test_NormalizePage(t *testing.T) {
	tests := []struct {
		name string
		page int
		want int
	}{
		{"zero -> first", 0, FirstPage},
		{"negative -> first", -4, FirstPage},
		{"keep when ok", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePage(tt.page); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}

func Test_PageRequest_Normalize(t *testing.T) {
	req := PageRequest{Page: 0, PageSize: 1000, Filter: "age>18", OrderBy: "name"}

	got := req.Normalize()

	assert.Equal(t, PageRequest{Page: FirstPage, PageSize: MaxLimit, Filter: "age>18", OrderBy: "name"}, got)
	assert.Equal(t, 0, req.Page, "source request is not modified")
	assert.Equal(t, NewWindow(FirstPage, MaxLimit), got.Window())
	assert.True(t, req.Window().IsEmpty())
}

func Test_PageRequest_JSON(t *testing.T) {
	var req PageRequest
	err := json.Unmarshal([]byte(`{"page":2,"pageSize":25,"filter":"name^jo/i","orderBy":"age desc"}`), &req)
	require.NoError(t, err)

	assert.Equal(t, PageRequest{Page: 2, PageSize: 25, Filter: "name^jo/i", OrderBy: "age desc"}, req)

	data, err := json.Marshal(PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1,"pageSize":10}`, string(data))
}
