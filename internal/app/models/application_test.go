package models

import "testing"

func TestProgressType_CanTransitionTo(t *testing.T) {
	all := []ProgressType{ProgressRejected, ProgressNotApproved, ProgressInProgress, ProgressCompleted}
	allowed := map[[2]ProgressType]bool{
		{ProgressNotApproved, ProgressInProgress}: true,
		{ProgressNotApproved, ProgressRejected}:   true,
		{ProgressInProgress, ProgressCompleted}:   true,
		{ProgressInProgress, ProgressRejected}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]ProgressType{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%v.CanTransitionTo(%v) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestProgressType_Terminal(t *testing.T) {
	if !ProgressCompleted.IsTerminal() || !ProgressRejected.IsTerminal() {
		t.Error("Completed and Rejected must be terminal")
	}
	if ProgressNotApproved.IsTerminal() || ProgressInProgress.IsTerminal() {
		t.Error("NotApproved and InProgress must not be terminal")
	}
}

func TestParseProgressType(t *testing.T) {
	for v := 0; v <= 3; v++ {
		if _, err := ParseProgressType(v); err != nil {
			t.Errorf("ParseProgressType(%d) error = %v", v, err)
		}
	}
	for _, v := range []int{-1, 4} {
		if _, err := ParseProgressType(v); err == nil {
			t.Errorf("ParseProgressType(%d) error = nil", v)
		}
	}
}

func TestProgressBand_Matches(t *testing.T) {
	tests := []struct {
		band ProgressBand
		p    ProgressType
		want bool
	}{
		{BandPending, ProgressNotApproved, true},
		{BandPending, ProgressInProgress, false},
		{BandPending, ProgressRejected, false},
		{BandApproved, ProgressNotApproved, false},
		{BandApproved, ProgressInProgress, true},
		{BandApproved, ProgressCompleted, true},
		{BandApproved, ProgressRejected, false},
		{BandAll, ProgressRejected, true},
	}
	for _, tt := range tests {
		if got := tt.band.Matches(tt.p); got != tt.want {
			t.Errorf("%s.Matches(%v) = %v, want %v", tt.band, tt.p, got, tt.want)
		}
	}
}

func TestParseProgressBand(t *testing.T) {
	if b, err := ParseProgressBand(""); err != nil || b != BandAll {
		t.Errorf("ParseProgressBand(\"\") = %q, %v", b, err)
	}
	if _, err := ParseProgressBand("later"); err == nil {
		t.Error("ParseProgressBand(\"later\") error = nil")
	}
}
