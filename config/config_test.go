package config

import "testing"

func TestLoadConfigMaxPODocuments(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("MAX_PO_DOCS", "30")
	LoadConfig()
	if MaxPODocuments != 30 {
		t.Errorf("MaxPODocuments = %d, want 30", MaxPODocuments)
	}

	t.Setenv("MAX_PO_DOCS", "")
	LoadConfig()
	if MaxPODocuments != 20 {
		t.Errorf("default MaxPODocuments = %d, want 20", MaxPODocuments)
	}

	for _, bad := range []string{"abc", "0", "-3"} {
		t.Setenv("MAX_PO_DOCS", bad)
		LoadConfig()
		if MaxPODocuments != 20 {
			t.Errorf("MaxPODocuments with MAX_PO_DOCS=%q = %d, want default 20", bad, MaxPODocuments)
		}
	}
}
