package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{"empty", nil, 5, nil},
		{"exact", []int{1, 2, 3, 4, 5}, 5, [][]int{{1, 2, 3, 4, 5}}},
		{"remainder", []int{1, 2, 3, 4, 5, 6, 7}, 5, [][]int{{1, 2, 3, 4, 5}, {6, 7}}},
		{"smaller than batch", []int{1, 2}, 5, [][]int{{1, 2}}},
		{"zero size", []int{1}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Partition(tt.items, tt.size)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
