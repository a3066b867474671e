package filters

import (
	"net/url"
	"sort"

	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
)

// Compiler turns query parameters into a predicate set. It holds no per-request state and can be
// shared between requests.
type Compiler struct {
	separator string
	logger    log.Logger
}

func NewCompiler(separator string, logger log.Logger) *Compiler {
	if separator == "" {
		separator = types.DefaultSeparator
	}
	return &Compiler{separator: separator, logger: logger}
}

// Compile builds the predicate set for params. Parameters naming fields the resource does not expose,
// fields without a whitelist entry, disallowed lookups and unauthorized relation lookups are dropped
// without error. Parameters are visited in key order; when two of them resolve to the same predicate
// key the later one wins.
func (c *Compiler) Compile(params url.Values, resource Resource, terms types.Terms) types.PredicateSet {
	predicates := types.PredicateSet{}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := params[key]
		if len(values) == 0 {
			continue
		}

		predicate, err := c.compileParam(key, values, resource, terms)
		if err != nil {
			c.logger.Debug("dropped filter",
				"param", key,
				"reason", err.Error())
			continue
		}
		predicates.Add(c.separator, predicate)
	}

	return predicates
}

func (c *Compiler) compileParam(key string, values []string, resource Resource, terms types.Terms) (types.Predicate, error) {
	expr := ParseExpression(key, c.separator, terms)

	path, err := Resolve(expr, resource)
	if err != nil {
		return types.Predicate{}, err
	}

	// The last occurrence is the value of a key, every occurrence feeds in and range lists
	return types.Predicate{
		Path:   path,
		Lookup: expr.Lookup,
		Value:  Coerce(values[len(values)-1], expr.Lookup, values),
	}, nil
}
