package engine

import "testing"

func TestErrorCheckersDistinguishCodes(t *testing.T) {
	versionErr := ErrVersionMismatch(2, 1)
	corruptErr := ErrCorruptedState("eden", 3, 4)
	faultErr := ErrProgrammerFault("test")

	cases := []struct {
		name string
		err  error
		is   func(error) bool
		want bool
	}{
		{"version/IsVersionMismatch", versionErr, IsVersionMismatch, true},
		{"version/IsCorruptedState", versionErr, IsCorruptedState, false},
		{"corrupt/IsCorruptedState", corruptErr, IsCorruptedState, true},
		{"corrupt/IsProgrammerFault", corruptErr, IsProgrammerFault, false},
		{"fault/IsProgrammerFault", faultErr, IsProgrammerFault, true},
		{"fault/IsVersionMismatch", faultErr, IsVersionMismatch, false},
	}
	for _, tc := range cases {
		if got := tc.is(tc.err); got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, got, tc.want)
		}
	}
}
