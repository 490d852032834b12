package apiv1

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDoc(t *testing.T) *openapi3.T {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("../../../public/docs/v1/openapi.yml")
	require.NoError(t, err)
	return doc
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	doc := loadDoc(t)
	require.NoError(t, doc.Validate(context.Background()))
}

func TestOpenAPIDocumentCoversRegisteredRoutes(t *testing.T) {
	doc := loadDoc(t)

	paths := map[string]string{
		"/enrollments":             "POST",
		"/enrollments/pause":       "POST",
		"/enrollments/abandon":     "POST",
		"/enrollments/reconcile":   "POST",
		"/users/{id}/habits/today": "GET",
		"/users/{id}/habits/range": "GET",
		"/users/{id}/profile":      "GET",
		"/users/{id}/enrollments":  "GET",
		"/users/{id}/assignments":  "GET",
		"/habits/{id}/completion":  "PATCH",
		"/assignments":             "POST",
		"/assignments/custom":      "POST",
		"/assignments/{id}":        "DELETE",
		"/catalog/habits":          "GET",
		"/routines":                "GET",
		"/routines/{id}/templates": "GET",
	}

	for path, method := range paths {
		item := doc.Paths.Find(path)
		require.NotNil(t, item, "missing path %s", path)
		assert.NotNil(t, item.GetOperation(method), "missing %s %s", method, path)
	}
}
