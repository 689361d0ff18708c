package taiwan

import "testing"

func TestFromCode(t *testing.T) {
	city, district := FromCode("106")
	if city != "臺北市" || district != "大安區" {
		t.Fatalf("expected 臺北市/大安區, got %s/%s", city, district)
	}
}

func TestFromCodeUnknownReturnsEmpty(t *testing.T) {
	city, district := FromCode("999")
	if city != "" || district != "" {
		t.Fatalf("expected empty result for unknown code, got %s/%s", city, district)
	}
}

func TestToCode(t *testing.T) {
	if code := ToCode("高雄市", "左營區"); code != "813" {
		t.Fatalf("expected 813, got %s", code)
	}
	if code := ToCode("高雄市", "不存在區"); code != "" {
		t.Fatalf("expected empty code for unknown district, got %s", code)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, code := range []string{"100", "220", "330", "700", "830"} {
		city, district := FromCode(code)
		if city == "" {
			t.Fatalf("code %s missing from table", code)
		}
		if got := ToCode(city, district); got != code {
			t.Fatalf("round trip for %s returned %s", code, got)
		}
	}
}

func TestSharedCodeResolvesPerDistrict(t *testing.T) {
	// 300 covers all of Hsinchu City; both districts must map back to it.
	if code := ToCode("新竹市", "北區"); code != "300" {
		t.Fatalf("expected 300 for 新竹市/北區, got %s", code)
	}
	if code := ToCode("新竹市", "香山區"); code != "300" {
		t.Fatalf("expected 300 for 新竹市/香山區, got %s", code)
	}
}

func TestValidLocation(t *testing.T) {
	if !ValidLocation("235", "新北市", "中和區") {
		t.Fatal("expected 235/新北市/中和區 to be valid")
	}
	if ValidLocation("235", "臺北市", "中和區") {
		t.Fatal("expected mismatched city to be invalid")
	}
}

func TestDistricts(t *testing.T) {
	districts := Districts("臺北市")
	if len(districts) != 12 {
		t.Fatalf("expected 12 Taipei districts, got %d", len(districts))
	}
}
