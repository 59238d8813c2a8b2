package domain_test

import (
	"testing"

	"github.com/swopnil/Guardify/internal/core/domain"
)

func TestAlertKindValid(t *testing.T) {
	for _, k := range []domain.AlertKind{
		domain.AlertVoiceTrigger,
		domain.AlertChatEscalation,
		domain.AlertGeofenceExit,
		domain.AlertManual,
	} {
		if !k.Valid() {
			t.Errorf("kind %q should be valid", k)
		}
	}
	if domain.AlertKind("panic").Valid() {
		t.Error("unknown kind should not be valid")
	}
}

func TestIsEmergency(t *testing.T) {
	cases := []struct {
		kind domain.AlertKind
		want bool
	}{
		{domain.AlertVoiceTrigger, true},
		{domain.AlertChatEscalation, true},
		{domain.AlertManual, true},
		// Fence crossings are informational; security is not paged for them.
		{domain.AlertGeofenceExit, false},
	}

	for _, tc := range cases {
		a := domain.SafetyAlert{Kind: tc.kind}
		if got := a.IsEmergency(); got != tc.want {
			t.Errorf("IsEmergency(%q) = %v, want %v", tc.kind, got, tc.want)
		}
	}
}
