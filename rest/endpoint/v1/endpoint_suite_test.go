package endpoint

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestRestEndpoint(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST endpoint test suite")
}
