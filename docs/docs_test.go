package docs

import (
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title == "" {
		t.Fatal("swagger info missing title")
	}
}

func TestSwaggerDocumentListsRoutes(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	for _, route := range []string{"/health", "/api/symbols", "/api/sweeps/last", "/api/signals/{symbol}"} {
		if !strings.Contains(doc, `"`+route+`"`) {
			t.Fatalf("route %s missing from swagger document", route)
		}
	}
}
