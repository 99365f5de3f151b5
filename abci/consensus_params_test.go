package abci

import "testing"

func TestConsensusParamsThreshold(t *testing.T) {
	cases := []struct {
		n         int
		threshold int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{7, 5},
		{10, 7},
	}
	for _, c := range cases {
		got := NewConsensusParams(c.n).Threshold()
		if got != c.threshold {
			t.Errorf("Threshold(%d) = %d, want %d", c.n, got, c.threshold)
		}
	}
}

func TestConsensusParamsThresholdRange(t *testing.T) {
	for n := 1; n <= 1000; n++ {
		want := (2*n)/3 + 1
		got := NewConsensusParams(n).Threshold()
		if got != want {
			t.Fatalf("Threshold(%d) = %d, want %d", n, got, want)
		}
	}
}
