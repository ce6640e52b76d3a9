// Package bridge is the JSON codec at the worker boundary. Requests are checked
// for well-formedness and against an embedded schema before decoding; result
// envelopes coming back from a worker are normalized and checked so callers
// only ever see scalar main results.
package bridge

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gostat/domain/core"
	"gostat/domain/dataset"
	"gostat/domain/stats"
	"gostat/ports"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

//go:embed request.schema.json
var requestSchemaJSON string

var requestSchema = mustCompile("request.schema.json", requestSchemaJSON)

func mustCompile(url, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("bridge: add schema %s: %v", url, err))
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("bridge: compile schema %s: %v", url, err))
	}
	return compiled
}

// DecodeRequest parses one execution request. maxRows <= 0 disables the row
// limit. Row cells holding numbers become float64. The method may be left
// empty for transports that carry it elsewhere.
func DecodeRequest(raw []byte, maxRows int) (ports.ExecutionRequest, error) {
	var req ports.ExecutionRequest
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return req, payloadError("body", "empty request")
	}
	if !gjson.ValidBytes(raw) {
		return req, payloadError("body", "malformed JSON")
	}
	if n := gjson.GetBytes(raw, "rows.#").Int(); maxRows > 0 && n > int64(maxRows) {
		return req, payloadError("rows", fmt.Sprintf("%d rows exceed the limit of %d", n, maxRows))
	}

	doc, err := decodeNumbers(raw)
	if err != nil {
		return req, payloadError("body", err.Error())
	}
	if err := requestSchema.Validate(doc); err != nil {
		return req, payloadError(schemaField(err), err.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, core.ErrInvalidPayload) || core.IsInputError(err) {
			return req, err
		}
		return req, payloadError("body", err.Error())
	}
	normalizeRows(req.Rows)
	return req, nil
}

// DecodeBatch parses {"requests": [...]}, decoding every entry with
// DecodeRequest. The row limit applies per request.
func DecodeBatch(raw []byte, maxRows int) ([]ports.ExecutionRequest, error) {
	raw = bytes.TrimSpace(raw)
	if !gjson.ValidBytes(raw) {
		return nil, payloadError("body", "malformed JSON")
	}
	list := gjson.GetBytes(raw, "requests")
	if !list.IsArray() {
		return nil, payloadError("requests", "must be an array")
	}

	var reqs []ports.ExecutionRequest
	var decodeErr error
	list.ForEach(func(key, value gjson.Result) bool {
		req, err := DecodeRequest([]byte(value.Raw), maxRows)
		if err == nil && strings.TrimSpace(req.Method) == "" {
			err = payloadError("method", "is required")
		}
		if err != nil {
			decodeErr = fmt.Errorf("requests[%d]: %w", key.Int(), err)
			return false
		}
		reqs = append(reqs, req)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if len(reqs) == 0 {
		return nil, payloadError("requests", "empty batch")
	}
	return reqs, nil
}

// DecodeEnvelope parses an envelope returned by an external worker.
// mainResults must hold only numbers, strings and booleans; groupLabels are
// normalized to strings.
func DecodeEnvelope(raw []byte) (*stats.ResultEnvelope, error) {
	raw = bytes.TrimSpace(raw)
	if !gjson.ValidBytes(raw) {
		return nil, payloadError("body", "malformed JSON")
	}
	main := gjson.GetBytes(raw, "mainResults")
	if !main.IsObject() {
		return nil, payloadError("mainResults", "must be an object")
	}

	var scalarErr error
	main.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Number, gjson.String, gjson.True, gjson.False:
			return true
		}
		scalarErr = payloadError("mainResults."+key.String(), "value must be a number, string or boolean")
		return false
	})
	if scalarErr != nil {
		return nil, scalarErr
	}

	var env stats.ResultEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, payloadError("body", err.Error())
	}
	if strings.TrimSpace(env.Metadata.Method) == "" {
		return nil, payloadError("metadata.method", "is required")
	}
	if env.AdditionalInfo == nil {
		env.AdditionalInfo = make(map[string]any)
	}
	if labels, ok := env.AdditionalInfo[stats.InfoGroupLabels].([]any); ok {
		normalized := make([]string, 0, len(labels))
		for _, l := range labels {
			s, ok := dataset.Label(l)
			if !ok {
				return nil, payloadError("additionalInfo."+stats.InfoGroupLabels, fmt.Sprintf("label %v is not a scalar", l))
			}
			normalized = append(normalized, s)
		}
		env.AdditionalInfo[stats.InfoGroupLabels] = normalized
	}
	return &env, nil
}

// EncodeEnvelope serializes an envelope after checking its main results
func EncodeEnvelope(env *stats.ResultEnvelope) ([]byte, error) {
	if env == nil {
		return nil, payloadError("envelope", "is nil")
	}
	if err := env.ValidateMain(); err != nil {
		return nil, payloadError("mainResults", err.Error())
	}
	return json.Marshal(env)
}

func decodeNumbers(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// normalizeRows converts json.Number cells once so executors see float64
func normalizeRows(rows dataset.Records) {
	for _, row := range rows {
		for key, value := range row {
			if n, ok := value.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					row[key] = f
				}
			}
		}
	}
}

func schemaField(err error) string {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		for len(ve.Causes) > 0 {
			ve = ve.Causes[0]
		}
		if loc := strings.TrimPrefix(ve.InstanceLocation, "/"); loc != "" {
			return strings.ReplaceAll(loc, "/", ".")
		}
	}
	return "body"
}

func payloadError(field, detail string) error {
	return &core.FieldError{Kind: core.ErrInvalidPayload, Field: field, Detail: detail}
}
