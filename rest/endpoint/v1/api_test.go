package endpoint

import (
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/datastax/data-api-filters/config"
	"github.com/datastax/data-api-filters/filters"
	"github.com/datastax/data-api-filters/internal/testutil"
	"github.com/datastax/data-api-filters/internal/testutil/rest"
	"github.com/datastax/data-api-filters/memory"
	m "github.com/datastax/data-api-filters/rest/models"
	"github.com/datastax/data-api-filters/types"
)

func buildResource(c config.ResourceConfig) *config.Resource {
	resource, err := c.Build(config.NewDefaultNaming(), types.DefaultSeparator, testutil.TestLogger())
	testutil.PanicIfError(err)
	return resource
}

func testResources() []*config.Resource {
	return []*config.Resource{
		buildResource(config.ResourceConfig{
			Name:   "commentRatings",
			Fields: []string{"id", "rating", "comment", "created", "isModerated", "user"},
			Filters: filters.Whitelist{
				"id":          filters.Lookups("exact", "in"),
				"rating":      filters.All,
				"created":     filters.All,
				"isModerated": filters.All,
				"user":        filters.AllWithRelations,
			},
		}),
		buildResource(config.ResourceConfig{
			Name:   "profiles",
			Fields: []string{"id", "name", "surname", "activities"},
			Methods: map[string]config.MethodConfig{
				"filter_by_students": {Fixed: map[string]interface{}{"activities": "studying"}},
				"exclude_students":   {Fixed: map[string]interface{}{"activities": "studying"}, Exclude: true},
			},
			FilterSet: []config.AdapterConfig{
				{Param: "is_student", TrueMethod: "filter_by_students", FalseMethod: "exclude_students"},
			},
		}),
		buildResource(config.ResourceConfig{
			Name:   "firstProfile",
			Table:  "profiles",
			Fields: []string{"id", "name"},
			Limit:  1,
		}),
		buildResource(config.ResourceConfig{
			Name:   "missing",
			Fields: []string{"id"},
		}),
	}
}

func testBackend() types.Backend {
	return memory.NewBackend(map[string][]types.Row{
		"comment_ratings": testutil.CommentRatings(),
		"profiles":        testutil.Profiles(),
	})
}

var _ = Describe("Routes", func() {
	var routes []types.Route

	BeforeEach(func() {
		cfg := config.NewConfigMock().Default()
		routes = Routes(rest.Prefix, config.AllOperations, cfg, testBackend(), testResources())
	})

	It("Should only expose supported operations", func() {
		cfg := config.NewConfigMock().Default()
		limited := Routes(rest.Prefix, config.RowsList, cfg, testBackend(), testResources())
		Expect(limited).To(HaveLen(1))
		Expect(limited[0].Pattern).To(Equal("/rest/v1/resources/:resourceName/rows"))
		Expect(routes).To(HaveLen(3))
	})

	Describe("GetResources", func() {
		It("Should describe resources sorted by name", func() {
			var response m.Resources
			code := rest.ExecuteGet(routes, ResourcesPathFormat, &response)
			Expect(code).To(Equal(http.StatusOK))
			Expect(response.Resources).To(HaveLen(4))
			Expect(response.Resources[0].Name).To(Equal("commentRatings"))
			Expect(response.Resources[0].Filters).To(Equal(map[string]string{
				"id":          "[exact,in]",
				"rating":      "all",
				"created":     "all",
				"isModerated": "all",
				"user":        "all_with_relations",
			}))
			Expect(response.Resources[3].Name).To(Equal("profiles"))
			Expect(response.Resources[3].Params).To(Equal([]string{"is_student"}))
			Expect(response.Resources[3].Filters).To(BeEmpty())
		})
	})

	Describe("GetRows", func() {
		It("Should apply filters", func() {
			var response m.Rows
			code, header := rest.ExecuteGetWithQuery(routes, RowsPathFormat, "rating=1&isModerated=False",
				&response, "commentRatings")
			Expect(code).To(Equal(http.StatusOK))
			Expect(header.Get(FiltersStatusHeader)).To(Equal("applied"))
			Expect(response.Status).To(Equal("applied"))
			Expect(response.Filters).To(Equal([]string{"is_moderated__exact", "rating__exact"}))
			Expect(response.Count).To(Equal(1))
			Expect(response.Rows[0]["id"]).To(Equal(json.Number("1")))
			Expect(response.Rows[0]["isModerated"]).To(Equal(false))
			Expect(response.Rows[0]).NotTo(HaveKey("is_moderated"))
		})

		It("Should filter across relations", func() {
			var response m.Rows
			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "user__groups__name=admins", &response,
				"commentRatings")
			Expect(response.Count).To(Equal(1))

			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "user__groups__name=readers", &response,
				"commentRatings")
			Expect(response.Status).To(Equal("applied"))
			Expect(response.Count).To(Equal(0))
		})

		It("Should ignore filters that are not whitelisted", func() {
			var response m.Rows
			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "id__gt=5&comment=2", &response, "commentRatings")
			Expect(response.Status).To(Equal("applied"))
			Expect(response.Filters).To(BeEmpty())
			Expect(response.Count).To(Equal(1))
		})

		It("Should fall back to unfiltered rows on invalid values", func() {
			var response m.Rows
			code, header := rest.ExecuteGetWithQuery(routes, RowsPathFormat, "created__year=invalid", &response,
				"commentRatings")
			Expect(code).To(Equal(http.StatusOK))
			Expect(header.Get(FiltersStatusHeader)).To(Equal("fell-back"))
			Expect(response.Status).To(Equal("fell-back"))
			Expect(response.Count).To(Equal(1))
		})

		It("Should not filter resources without whitelist", func() {
			var response m.Rows
			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "activities=working", &response, "profiles")
			Expect(response.Status).To(Equal("disabled"))
			Expect(response.Filters).To(BeEmpty())
			Expect(response.Count).To(Equal(2))
		})

		It("Should apply method filters", func() {
			var response m.Rows
			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "is_student=true", &response, "profiles")
			Expect(response.Count).To(Equal(1))
			Expect(response.Rows[0]["name"]).To(Equal("vladimir"))

			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "is_student=maybe", &response, "profiles")
			Expect(response.Count).To(Equal(2))
		})

		It("Should limit rows", func() {
			var response m.Rows
			rest.ExecuteGet(routes, RowsPathFormat, &response, "firstProfile")
			Expect(response.Count).To(Equal(2))
			Expect(response.Rows).To(HaveLen(1))
			Expect(response.Rows[0]).To(Equal(map[string]interface{}{
				"id":   json.Number("1"),
				"name": "gennady",
			}))
		})

		It("Should return not found for unknown resources", func() {
			var response m.ModelError
			code := rest.ExecuteGet(routes, RowsPathFormat, &response, "videos")
			Expect(code).To(Equal(http.StatusNotFound))
			Expect(response.Description).To(Equal("resource 'videos' not found"))
		})

		It("Should return an internal error when the table is missing", func() {
			var response m.ModelError
			code := rest.ExecuteGet(routes, RowsPathFormat, &response, "missing")
			Expect(code).To(Equal(http.StatusInternalServerError))
			Expect(response.Description).To(Equal("unable to open resource"))
		})
	})

	Describe("GetStats", func() {
		It("Should count requests by filter status", func() {
			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "rating=1", &m.Rows{}, "commentRatings")
			rest.ExecuteGetWithQuery(routes, RowsPathFormat, "created__year=invalid", &m.Rows{}, "commentRatings")
			rest.ExecuteGet(routes, RowsPathFormat, &m.Rows{}, "profiles")
			rest.ExecuteGet(routes, RowsPathFormat, &m.ModelError{}, "missing")

			var response m.Stats
			code := rest.ExecuteGet(routes, StatsPathFormat, &response)
			Expect(code).To(Equal(http.StatusOK))
			Expect(response).To(Equal(m.Stats{
				Requests: 4,
				Applied:  1,
				FellBack: 1,
				Disabled: 1,
				Errors:   1,
			}))
		})
	})
})
