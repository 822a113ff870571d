package factory_test

import (
	"testing"

	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/roster"
)

func TestParseCatalog_Valid(t *testing.T) {
	jsonStr := `{
		"shift_types": [
			{"code": "D", "name": "Day shift", "is_work_shift": true},
			{"code": "OFF", "name": "Day off", "is_system_default": true},
			{"code": "ขาด", "name": "Absent"}
		]
	}`

	types, err := factory.ParseCatalog(jsonStr)
	if err != nil {
		t.Fatalf("Expected valid catalog, got %v", err)
	}
	if len(types) != 3 {
		t.Fatalf("Expected 3 shift types, got %d", len(types))
	}
	if !types[0].IsWorkShift || types[0].Code != "D" {
		t.Errorf("Unexpected first type: %+v", types[0])
	}
	if types[2].Code != payroll.TokenAbsent {
		t.Errorf("Expected Thai absent code preserved, got %q", types[2].Code)
	}
}

func TestParseCatalog_Rejections(t *testing.T) {
	cases := []struct {
		name, jsonStr string
	}{
		{"invalid json", `{`},
		{"empty catalog", `{"shift_types": []}`},
		{"empty code", `{"shift_types": [{"code": "", "name": "x"}]}`},
		{"duplicate code", `{"shift_types": [{"code": "D"}, {"code": "D"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := factory.ParseCatalog(tc.jsonStr); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestDefaultCatalog_CoversEveryPayrollCategory(t *testing.T) {
	// The seed catalog must let the classifier resolve every category and
	// must protect all its codes from deletion.
	catalog := factory.DefaultCatalog()
	codes := roster.CodeSet(catalog)

	for _, want := range []roster.ShiftCode{
		roster.CodeOff, "D", "N",
		payroll.TokenAbsent, payroll.TokenSickShort,
		payroll.TokenPersonalShort, payroll.TokenVacationShort,
	} {
		if !codes[want] {
			t.Errorf("Expected default catalog to contain %q", want)
		}
	}
	for _, st := range catalog {
		if !st.IsSystemDefault {
			t.Errorf("Expected %q to be system-protected", st.Code)
		}
	}

	cls := payroll.Classify(catalog)
	if cls.Absent != payroll.TokenAbsent || cls.Sick != payroll.TokenSickShort {
		t.Errorf("Unexpected classification from defaults: %+v", cls)
	}
}
