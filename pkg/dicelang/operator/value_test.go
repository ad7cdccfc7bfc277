package operator

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{4, "4"},
		{-3, "-3"},
		{7.5, "7.5"},
		{2.25, "2.25"},
		{1000000, "1000000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTupleInspect(t *testing.T) {
	got := Tuple{-1, 0, 1}.Inspect()
	if got != "(-1, 0, 1)" {
		t.Errorf("Inspect() = %q, want %q", got, "(-1, 0, 1)")
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want float64
	}{
		{"number", Number(4.5), 4.5},
		{"tuple", Tuple{1, 2, 3}, 6},
		{"roll", NewRoll([]float64{2, 5, 6}, Number(6)), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sum(tt.in); got != tt.want {
				t.Errorf("Sum() = %v, want %v", got, tt.want)
			}
		})
	}
}
