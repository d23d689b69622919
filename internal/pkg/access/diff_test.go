package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffIDs(t *testing.T) {
	tests := []struct {
		name       string
		current    []uint
		desired    []uint
		wantAdd    []uint
		wantRemove []uint
	}{
		{"empty", nil, nil, nil, nil},
		{"grant all", nil, []uint{3, 1, 2}, []uint{1, 2, 3}, nil},
		{"revoke all", []uint{4, 5}, nil, nil, []uint{4, 5}},
		{"unchanged", []uint{1, 2}, []uint{2, 1}, nil, nil},
		{"mixed", []uint{1, 2, 3}, []uint{2, 3, 4, 5}, []uint{4, 5}, []uint{1}},
		{"duplicates and zero", []uint{1, 1, 0}, []uint{0, 2, 2}, []uint{2}, []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			add, remove := DiffIDs(tt.current, tt.desired)
			assert.Equal(t, tt.wantAdd, add)
			assert.Equal(t, tt.wantRemove, remove)
		})
	}
}
