package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		url          string
		wantPage     int
		wantPageSize int
	}{
		{"/api/projects", 1, DefaultPageSize},
		{"/api/projects?page=3&pageSize=50", 3, 50},
		{"/api/projects?page=0&pageSize=0", 1, DefaultPageSize},
		{"/api/projects?page=-2&pageSize=-5", 1, DefaultPageSize},
		{"/api/projects?pageSize=500", 1, MaxPageSize},
		{"/api/projects?page=abc&pageSize=xyz", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			page, pageSize := pageParams(testContext(t, tt.url))
			if page != tt.wantPage || pageSize != tt.wantPageSize {
				t.Errorf("pageParams = (%d, %d), want (%d, %d)", page, pageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestCreatePaginatedResponse(t *testing.T) {
	c := testContext(t, "/api/projects?page=2&pageSize=10")

	resp := CreatePaginatedResponse(c, []string{"a", "b"}, 25)
	if resp.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", resp.TotalPages)
	}
	if resp.CurrentPage != 2 || resp.PageSize != 10 || resp.TotalRows != 25 {
		t.Errorf("unexpected response: %+v", resp)
	}

	empty := CreatePaginatedResponse(c, nil, 0)
	if empty.TotalPages != 0 {
		t.Errorf("TotalPages for empty result = %d, want 0", empty.TotalPages)
	}
}
