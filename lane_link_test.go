package roadgen

import (
	"reflect"
	"testing"
)

func TestInferLaneLinks(t *testing.T) {
	cases := []struct {
		name    string
		from    []int
		to      []int
		flip    bool
		correct []LaneLink
	}{
		{
			name:    "narrowing",
			from:    []int{-2, -1, 1, 2},
			to:      []int{-1, 1},
			correct: []LaneLink{{-2, -1}, {-1, -1}, {1, 1}, {2, 1}},
		},
		{
			name:    "widening",
			from:    []int{-1, 1},
			to:      []int{-2, -1, 1, 2},
			correct: []LaneLink{{-1, -1}, {1, 1}},
		},
		{
			name:    "unordered input",
			from:    []int{2, -1, 1, -2},
			to:      []int{1, -1},
			correct: []LaneLink{{-2, -1}, {-1, -1}, {1, 1}, {2, 1}},
		},
		{
			name:    "flipped",
			from:    []int{-2, -1, 1},
			to:      []int{-1, 1, 2},
			flip:    true,
			correct: []LaneLink{{-2, 2}, {-1, 1}, {1, -1}},
		},
		{
			name:    "no lanes on the same side",
			from:    []int{-1, 1},
			to:      []int{-1, -2},
			correct: []LaneLink{{-1, -1}},
		},
		{
			name:    "tie resolved toward center",
			from:    []int{-2},
			to:      []int{-1, -3},
			correct: []LaneLink{{-2, -1}},
		},
		{
			name:    "center lane ignored",
			from:    []int{0, -1},
			to:      []int{0, -1},
			correct: []LaneLink{{-1, -1}},
		},
		{
			name:    "empty",
			from:    []int{},
			to:      []int{-1},
			correct: []LaneLink{},
		},
	}
	for _, c := range cases {
		links := InferLaneLinks(c.from, c.to, c.flip)
		if !reflect.DeepEqual(links, c.correct) {
			t.Errorf("%s: links should be %v, but got %v", c.name, c.correct, links)
		}
	}
}

func TestInferLaneLinksKeepsInput(t *testing.T) {
	from := []int{2, -1}
	InferLaneLinks(from, []int{-1, 1}, false)
	if from[0] != 2 || from[1] != -1 {
		t.Errorf("Input should be left untouched, but got %v", from)
	}
}
