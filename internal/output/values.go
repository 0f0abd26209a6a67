package output

import (
	"encoding/json"
	"strconv"

	"git.home.luguber.info/inful/affected/internal/affected"
	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// Output names consumed by downstream workflow steps.
const (
	KeyModified      = "modified_packages"
	KeyOrdered       = "ordered_changes"
	KeyHasDescriptor = "has_nuspec"
)

type value struct {
	key string
	val string
}

// values renders the result as the ordered list of output values. Lists are
// compact JSON arrays, the flag is "true" or "false".
func values(res *affected.Result) ([]value, error) {
	modified, err := jsonList(res.Modified)
	if err != nil {
		return nil, err
	}
	ordered, err := jsonList(res.Ordered)
	if err != nil {
		return nil, err
	}
	return []value{
		{KeyModified, modified},
		{KeyOrdered, ordered},
		{KeyHasDescriptor, strconv.FormatBool(res.HasDescriptor)},
	}, nil
}

func jsonList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", errors.InternalError("failed to encode output list").WithCause(err).Build()
	}
	return string(b), nil
}
