package schedule

import (
	"testing"
	"time"
)

func TestSeasonOf_MarchBoundary(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{name: "last day of february", date: time.Date(2019, 2, 28, 0, 0, 0, 0, time.UTC), want: 2018},
		{name: "first day of march", date: time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC), want: 2019},
		{name: "january playoffs", date: time.Date(2020, 1, 12, 0, 0, 0, 0, time.UTC), want: 2019},
		{name: "december", date: time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), want: 2020},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SeasonOf(tc.date); got != tc.want {
				t.Fatalf("unexpected season: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestDateFromEventID(t *testing.T) {
	got, err := DateFromEventID("1992081500")
	if err != nil {
		t.Fatalf("decode event id: %v", err)
	}
	want := time.Date(1992, 8, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date: got=%s want=%s", got, want)
	}

	if _, err := DateFromEventID("2019"); err == nil {
		t.Fatalf("expected error for short event id")
	}
	if _, err := DateFromEventID("2019ab0100"); err == nil {
		t.Fatalf("expected error for non numeric event id")
	}
}

func TestParsePhase(t *testing.T) {
	phase, err := ParsePhase("")
	if err != nil || phase != PhaseReg {
		t.Fatalf("expected empty phase to default to REG, got %q err=%v", phase, err)
	}
	phase, err = ParsePhase(" post ")
	if err != nil || phase != PhasePost {
		t.Fatalf("expected POST, got %q err=%v", phase, err)
	}
	if _, err := ParsePhase("playoffs"); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
}

func TestGame_Involves(t *testing.T) {
	game := Game{EventID: "2018090600", Home: "PHI", Away: "ATL"}
	if !game.Involves("PHI") || !game.Involves("ATL") {
		t.Fatalf("expected both sides to be involved")
	}
	if game.Involves("PH") {
		t.Fatalf("expected partial abbreviation not to match")
	}
}
