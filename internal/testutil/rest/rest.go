package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/julienschmidt/httprouter"
	. "github.com/onsi/gomega"

	"github.com/datastax/data-api-filters/rest/models"
	"github.com/datastax/data-api-filters/types"
)

const Prefix = "/rest"

func ExecuteGet(routes []types.Route, routeFormat string, responsePtr interface{}, values ...interface{}) int {
	code, _ := ExecuteGetWithQuery(routes, routeFormat, "", responsePtr, values...)
	return code
}

// ExecuteGetWithQuery performs a GET request with the provided raw query string and returns the status
// code and the response headers
func ExecuteGetWithQuery(
	routes []types.Route,
	routeFormat string,
	query string,
	responsePtr interface{},
	values ...interface{},
) (int, http.Header) {
	rv := reflect.ValueOf(responsePtr)
	if responsePtr != nil && rv.Kind() != reflect.Ptr {
		panic("Provided value should be a pointer or nil")
	}

	targetPath := path.Join(Prefix, fmt.Sprintf(routeFormat, values...))
	if query != "" {
		targetPath += "?" + query
	}

	r, _ := http.NewRequest(http.MethodGet, targetPath, nil)
	w := httptest.NewRecorder()
	route := lookupRoute(routes, http.MethodGet, routeFormat)

	// Use default router for params to be populated
	router := httprouter.New()
	router.Handler(http.MethodGet, route.Pattern, route.Handler)
	router.ServeHTTP(w, r)

	if w.Code < http.StatusOK || w.Code > http.StatusIMUsed {
		// Not in the 2xx range
		if responsePtr == nil {
			return w.Code, w.Header()
		}
		_, ok := responsePtr.(*models.ModelError)
		if !ok {
			panic(fmt.Sprintf("unexpected http error %d: %s", w.Code, w.Body))
		}
	}

	if w.Code != http.StatusNoContent && responsePtr != nil {
		bodyString := w.Body.String()
		decoder := json.NewDecoder(bytes.NewBufferString(bodyString))
		decoder.UseNumber()
		err := decoder.Decode(responsePtr)
		Expect(err).ToNot(HaveOccurred(),
			fmt.Sprintf("Error decoding response with code %d and body: %s", w.Code, bodyString))
	}

	return w.Code, w.Header()
}

func lookupRoute(routes []types.Route, method, format string) types.Route {
	// Word tokens for parameters
	regexStr := strings.Replace(format, `%s`, `[\w:{}]+`, -1)
	// End of the string
	regexStr += `$`

	re := regexp.MustCompile(regexStr)
	for _, route := range routes {
		if re.MatchString(route.Pattern) && route.Method == method {
			return route
		}
	}

	panic("Route not found")
}
