package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled caches compiled schemas by name.
var compiled struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}

func compileSchema(s *Schema) (*jsonschema.Schema, error) {
	compiled.Lock()
	defer compiled.Unlock()

	if c, ok := compiled.byName[s.Name]; ok {
		return c, nil
	}

	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.Name, err)
	}
	url := "mem://" + s.Name + ".json"
	comp := jsonschema.NewCompiler()
	if err := comp.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", s.Name, err)
	}
	c, err := comp.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}

	if compiled.byName == nil {
		compiled.byName = make(map[string]*jsonschema.Schema)
	}
	compiled.byName[s.Name] = c
	return c, nil
}

// checkSchema returns a *ResponseError when content is not JSON matching s.
func checkSchema(s *Schema, content json.RawMessage) error {
	fail := func(err error) error {
		return &ResponseError{Schema: s.Name, Content: content, Err: err}
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return fail(fmt.Errorf("empty reply"))
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(content))
	if err != nil {
		return fail(fmt.Errorf("not JSON: %w", err))
	}
	c, err := compileSchema(s)
	if err != nil {
		return fail(err)
	}
	if err := c.Validate(doc); err != nil {
		return fail(err)
	}
	return nil
}

// finish checks the reply against the request schema and builds the
// response. A schema miss on a length stop is reported as truncation.
func finish(req Request, content json.RawMessage, model string, stop Stop, in, out int) (*Response, error) {
	if req.Schema != nil {
		if err := checkSchema(req.Schema, content); err != nil {
			if stop == StopLength {
				return nil, fmt.Errorf("%w after %d output tokens: %w", ErrTruncated, out, err)
			}
			return nil, err
		}
	}
	return &Response{
		Content:      content,
		Model:        model,
		Stop:         stop,
		InputTokens:  in,
		OutputTokens: out,
	}, nil
}

// resolveModel maps a friendly name to a vendor model ID; unknown names
// pass through.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
