package apihelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWriteRoutesToFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	noop := func(c *gin.Context) {}
	router.POST("/v1/auth/login", noop)
	router.GET("/", noop)
	router.GET("/v1/account/login-history", noop)

	filename := filepath.Join(t.TempDir(), "routes.txt")
	if err := WriteRoutesToFile(router, filename); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "GET\t/\nGET\t/v1/account/login-history\nPOST\t/v1/auth/login\n"
	if string(content) != expected {
		t.Errorf("unexpected file content: %q", string(content))
	}

	if err := WriteRoutesToFile(router, filepath.Join(t.TempDir(), "missing", "routes.txt")); err == nil {
		t.Error("expected error for unwritable path, got nil")
	}
}
