package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/train-ticket-booking/internal/model"
)

func TestValidateTicket(t *testing.T) {
	train := model.Train{CargoNum: 5, PlacesInCargo: 40}

	cases := []struct {
		name        string
		cargo, seat int
		wantField   string
	}{
		{"last seat of last cargo", 5, 40, ""},
		{"first seat", 1, 1, ""},
		{"cargo above range", 6, 1, "cargo"},
		{"seat zero", 1, 0, "seat"},
		{"seat above range", 1, 41, "seat"},
		{"cargo zero", 0, 1, "cargo"},
		{"cargo checked first", 6, 41, "cargo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTicket(tc.cargo, tc.seat, train)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var oor *OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("err = %v, want *OutOfRangeError", err)
			}
			if oor.Field != tc.wantField || oor.Min != 1 {
				t.Fatalf("got %+v, want field %s", oor, tc.wantField)
			}
			wantMax := train.CargoNum
			if tc.wantField == "seat" {
				wantMax = train.PlacesInCargo
			}
			if oor.Max != wantMax {
				t.Fatalf("Max = %d, want %d", oor.Max, wantMax)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	dep := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	if err := ValidateSchedule(dep, dep.Add(time.Hour)); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
	for _, arr := range []time.Time{dep, dep.Add(-time.Minute)} {
		var ve *ValidationError
		if err := ValidateSchedule(dep, arr); !errors.As(err, &ve) || ve.Field != "arrival_time" {
			t.Fatalf("arrival %v: err = %v", arr, err)
		}
	}
}
