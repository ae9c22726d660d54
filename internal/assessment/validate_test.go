package assessment

import (
	"strings"
	"testing"
)

func TestValidateMix(t *testing.T) {
	tests := []struct {
		name string
		mc   int
		oe   int
		want bool
	}{
		{"exact contract", 7, 3, true},
		{"empty", 0, 0, false},
		{"swapped counts", 3, 7, false},
		{"one short", 6, 3, false},
		{"one extra OE", 7, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMix(validMC(tt.mc), validOE(tt.oe)); got != tt.want {
				t.Errorf("ValidateMix(%d, %d) = %v, want %v", tt.mc, tt.oe, got, tt.want)
			}
		})
	}
}

func TestValidateDiversity(t *testing.T) {
	// validMC spreads questions over min(n, 5) modules.
	mc, oe := validMC(7), validOE(3)

	if !ValidateDiversity(mc, oe, 5) {
		t.Error("expected 5 modules to satisfy minimum of 5")
	}
	if ValidateDiversity(mc, oe, 6) {
		t.Error("expected 5 modules to fail minimum of 6")
	}
}

func TestValidateUniquenessCaseInsensitive(t *testing.T) {
	mc, oe := validMC(7), validOE(3)
	if !ValidateUniqueness(mc, oe) {
		t.Fatal("distinct questions flagged as duplicates")
	}

	oe[0].QuestionText = strings.ToUpper(mc[0].QuestionText)
	if ValidateUniqueness(mc, oe) {
		t.Error("case-folded duplicate not detected")
	}
}

func TestCollectModulesSortedAndDeduped(t *testing.T) {
	mc := validMC(7)
	oe := validOE(3)

	modules := CollectModules(mc, oe)
	if len(modules) != 5 {
		t.Fatalf("got %d modules, want 5", len(modules))
	}
	for i := 1; i < len(modules); i++ {
		if modules[i-1] >= modules[i] {
			t.Errorf("modules not sorted: %q before %q", modules[i-1], modules[i])
		}
	}
}

func TestValidateWarningsDoNotBlock(t *testing.T) {
	mc, oe := validMC(7), validOE(3)
	oe[0].QuestionText = mc[0].QuestionText // duplicate → warning

	report := Validate(2, mc, oe, "", 0) // empty background → warning

	if !report.Valid {
		t.Fatalf("warnings should not invalidate: errors = %v", report.Errors)
	}
	if len(report.Warnings) != 2 {
		t.Errorf("got %d warnings, want 2: %v", len(report.Warnings), report.Warnings)
	}
}

func TestValidateConfigurableMinModules(t *testing.T) {
	// validMC/validOE spread questions over 5 modules.
	mc, oe := validMC(7), validOE(3)

	if report := Validate(2, mc, oe, "background", 0); !report.Valid {
		t.Errorf("minModules 0 should use the default of %d: errors = %v",
			DefaultMinModules, report.Errors)
	}

	report := Validate(2, mc, oe, "background", 6)
	if report.Valid {
		t.Fatal("5 modules should fail a configured minimum of 6")
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "expected 6+") {
		t.Errorf("errors = %v, want one diversity error naming the configured minimum", report.Errors)
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	report := Validate(9, validMC(2), validOE(1), "background", 0)

	if report.Valid {
		t.Fatal("expected invalid report")
	}
	// Mix, diversity, and level should each produce an error.
	if len(report.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(report.Errors), report.Errors)
	}
}
