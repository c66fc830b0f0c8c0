package openapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/spendwise/internal/transport/openapi"
)

var _ = Describe("OpenAPI document", func() {
	It("is valid and describes every route", func() {
		doc, err := openapi.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{"/", "/expenses", "/expenses/{id}", "/stats", "/categories", "/health", "/ping"} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
		Expect(doc.Paths.Find("/expenses").Post).NotTo(BeNil())
		Expect(doc.Paths.Find("/expenses/{id}").Delete).NotTo(BeNil())
		Expect(doc.Components.Schemas).To(HaveKey("Error"))
	})

	It("is served as YAML", func() {
		rec := httptest.NewRecorder()
		openapi.Handler()(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/yaml"))
		Expect(rec.Body.Bytes()).To(Equal(openapi.Document()))
	})
})
