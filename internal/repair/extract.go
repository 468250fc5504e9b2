package repair

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMalformedOutput means no JSON object could be parsed from the model
// text, even after extraction. The message is deliberately generic: raw
// model output is never echoed into errors.
var ErrMalformedOutput = errors.New("repair: no JSON object in model output")

// ExtractObject parses rawText into a JSON object. If the text is not
// valid JSON on its own, the substring between the first '{' and the last
// '}' is tried, which handles models that wrap JSON in prose or markdown
// fences. A bare JSON `null` decodes into a nil map, which downstream
// passes cannot write to, so it counts as no object.
func ExtractObject(raw []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return obj, nil
	}
	s := bytes.IndexByte(raw, '{')
	e := bytes.LastIndexByte(raw, '}')
	if s >= 0 && e > s {
		if err := json.Unmarshal(raw[s:e+1], &obj); err == nil {
			return obj, nil
		}
	}
	return nil, ErrMalformedOutput
}
