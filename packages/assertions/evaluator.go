package assertions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitsend/packages/http"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

type Result struct {
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
	Subject  string `json:"subject"`
	Operator string `json:"operator"`
}

type Evaluator struct {
	response *http.Response
	bodyJSON gjson.Result
	baseDir  string // schema paths resolve against and must stay inside it
}

// EvaluatorOption is a functional option for configuring an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithBaseDir confines schema files to dir.
func WithBaseDir(dir string) EvaluatorOption {
	return func(e *Evaluator) {
		e.baseDir = dir
	}
}

func NewEvaluator(resp *http.Response, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{response: resp}
	if resp.IsJSON() || gjson.ValidBytes(resp.Body) {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Evaluate(a *Assertion) *Result {
	result := &Result{
		Subject:  a.Subject,
		Operator: a.Operator.String(),
		Expected: a.Expected,
	}

	actual, err := e.actualValue(a.Subject)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Actual = actual

	result.Passed, result.Message = e.compare(actual, a.Operator, a.Expected)

	if a.Operator == OpLength {
		result.Actual = computeLength(actual)
	}
	return result
}

// EvaluateAll evaluates every assertion and reports whether all passed.
func EvaluateAll(resp *http.Response, list []*Assertion, opts ...EvaluatorOption) ([]*Result, bool) {
	e := NewEvaluator(resp, opts...)
	results := make([]*Result, len(list))
	ok := true
	for i, a := range list {
		results[i] = e.Evaluate(a)
		ok = ok && results[i].Passed
	}
	return results, ok
}

func (e *Evaluator) actualValue(subject string) (any, error) {
	switch {
	case subject == "status":
		return e.response.StatusCode, nil
	case subject == "duration":
		return e.response.DurationMs(), nil
	case subject == "mime":
		return e.response.MimeType, nil
	case strings.HasPrefix(subject, "header"):
		name := strings.TrimSpace(strings.TrimPrefix(subject, "header"))
		if name == "" {
			return e.response.Headers, nil
		}
		if v := e.response.Header(name); v != "" {
			return v, nil
		}
		return nil, nil
	case strings.HasPrefix(subject, "jsonpath"):
		if !e.bodyJSON.Exists() {
			return nil, fmt.Errorf("response body is not JSON")
		}
		return e.jsonValue(strings.TrimSpace(strings.TrimPrefix(subject, "jsonpath"))), nil
	case subject == "body":
		if e.bodyJSON.Exists() {
			return e.bodyJSON.Value(), nil
		}
		return e.response.BodyString(), nil
	case strings.HasPrefix(subject, "body."), strings.HasPrefix(subject, "body["):
		if !e.bodyJSON.Exists() {
			return nil, fmt.Errorf("response body is not JSON")
		}
		return e.jsonValue(strings.TrimPrefix(subject, "body")), nil
	default:
		return nil, fmt.Errorf("unknown subject %q", subject)
	}
}

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// jsonValue looks path up in the body. Bracket indexes are accepted:
// "items[0].id" is the gjson path "items.0.id".
func (e *Evaluator) jsonValue(path string) any {
	path = strings.TrimPrefix(bracketIndex.ReplaceAllString(path, ".$1"), ".")
	if path == "" {
		return e.bodyJSON.Value()
	}
	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil
	}
	return result.Value()
}

type check func(e *Evaluator, actual, expected any) (bool, string)

var checks = map[Operator]check{
	OpEquals:         (*Evaluator).equals,
	OpGreaterThan:    numeric(">"),
	OpGreaterOrEqual: numeric(">="),
	OpLessThan:       numeric("<"),
	OpLessOrEqual:    numeric("<="),
	OpContains:       stringCheck("contain", strings.Contains),
	OpStartsWith:     stringCheck("start with", strings.HasPrefix),
	OpEndsWith:       stringCheck("end with", strings.HasSuffix),
	OpMatches:        (*Evaluator).matches,
	OpExists:         (*Evaluator).exists,
	OpLength:         (*Evaluator).length,
	OpIncludes:       (*Evaluator).includes,
	OpIn:             (*Evaluator).in,
	OpType:           (*Evaluator).typeCheck,
	OpEach:           (*Evaluator).each,
	OpSchema:         (*Evaluator).schema,
}

// negations map each !op to the check it inverts.
var negations = map[Operator]Operator{
	OpNotEquals:   OpEquals,
	OpNotContains: OpContains,
	OpNotExists:   OpExists,
	OpNotIncludes: OpIncludes,
	OpNotIn:       OpIn,
}

func (e *Evaluator) compare(actual any, op Operator, expected any) (bool, string) {
	if base, ok := negations[op]; ok {
		if passed, _ := checks[base](e, actual, expected); passed {
			if op == OpNotExists {
				return false, "expected not to exist"
			}
			return false, fmt.Sprintf("expected not to %s %v", strings.TrimPrefix(op.String(), "!"), expected)
		}
		return true, ""
	}
	if c, ok := checks[op]; ok {
		return c(e, actual, expected)
	}
	return false, fmt.Sprintf("unknown operator: %v", op)
}

func (e *Evaluator) equals(actual, expected any) (bool, string) {
	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}
	if a, ok := toFloat64(actual); ok {
		if b, ok := toFloat64(expected); ok && a == b {
			return true, ""
		}
	}
	if actual != nil && expected != nil && fmt.Sprint(actual) == fmt.Sprint(expected) {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func numeric(op string) check {
	return func(_ *Evaluator, actual, expected any) (bool, string) {
		a, aOk := toFloat64(actual)
		b, bOk := toFloat64(expected)
		if !aOk || !bOk {
			return false, fmt.Sprintf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
		}

		var passed bool
		switch op {
		case ">":
			passed = a > b
		case ">=":
			passed = a >= b
		case "<":
			passed = a < b
		case "<=":
			passed = a <= b
		}
		if passed {
			return true, ""
		}
		return false, fmt.Sprintf("expected %v %s %v", actual, op, expected)
	}
}

func stringCheck(verb string, fn func(s, sub string) bool) check {
	return func(_ *Evaluator, actual, expected any) (bool, string) {
		if actual == nil {
			return false, fmt.Sprintf("expected value to %s '%v', got nothing", verb, expected)
		}
		if fn(fmt.Sprint(actual), fmt.Sprint(expected)) {
			return true, ""
		}
		return false, fmt.Sprintf("expected '%v' to %s '%v'", actual, verb, expected)
	}
}

func (e *Evaluator) matches(actual, expected any) (bool, string) {
	pattern := strings.TrimSuffix(strings.TrimPrefix(fmt.Sprint(expected), "/"), "/")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf("invalid regex pattern: %v", err)
	}
	if actual != nil && re.MatchString(fmt.Sprint(actual)) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to match /%v/", actual, pattern)
}

func (e *Evaluator) exists(actual, _ any) (bool, string) {
	if actual == nil {
		return false, "expected to exist"
	}
	return true, ""
}

// computeLength returns the length of a value, or -1 if length cannot be computed
func computeLength(actual any) int {
	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len()
	default:
		return -1
	}
}

func (e *Evaluator) length(actual, expected any) (bool, string) {
	want, ok := toInt(expected)
	if !ok {
		return false, fmt.Sprintf("expected length must be a number, got %v", expected)
	}
	got := computeLength(actual)
	if got == -1 {
		return false, fmt.Sprintf("cannot get length of %T", actual)
	}
	if got == want {
		return true, ""
	}
	return false, fmt.Sprintf("expected length %d, got %d", want, got)
}

func (e *Evaluator) includes(actual, expected any) (bool, string) {
	arr, ok := actual.([]any)
	if !ok {
		return false, fmt.Sprintf("expected array, got %T", actual)
	}
	for _, item := range arr {
		if passed, _ := e.equals(item, expected); passed {
			return true, ""
		}
	}
	return false, fmt.Sprintf("expected array to include %v", expected)
}

func (e *Evaluator) in(actual, expected any) (bool, string) {
	arr, ok := expected.([]any)
	if !ok {
		return false, fmt.Sprintf("expected array for 'in' operator, got %T", expected)
	}
	for _, item := range arr {
		if passed, _ := e.equals(actual, item); passed {
			return true, ""
		}
	}
	return false, fmt.Sprintf("expected %v to be in %v", actual, expected)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return reflect.TypeOf(v).String()
	}
}

func (e *Evaluator) typeCheck(actual, expected any) (bool, string) {
	want, got := fmt.Sprint(expected), typeName(actual)
	if want == got {
		return true, ""
	}
	return false, fmt.Sprintf("expected type %s, got %s", want, got)
}

// each passes when every element of an array equals expected.
func (e *Evaluator) each(actual, expected any) (bool, string) {
	arr, ok := actual.([]any)
	if !ok {
		return false, fmt.Sprintf("expected array for 'each' operator, got %T", actual)
	}
	for i, item := range arr {
		if passed, msg := e.equals(item, expected); !passed {
			return false, fmt.Sprintf("item[%d]: %s", i, msg)
		}
	}
	return true, ""
}

// validatePathWithinBase checks that the resolved path stays within the base directory
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %v", err)
	}
	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %v", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}
	return nil
}

func (e *Evaluator) schema(actual, expected any) (bool, string) {
	schemaPath := fmt.Sprint(expected)
	if !filepath.IsAbs(schemaPath) && e.baseDir != "" {
		schemaPath = filepath.Join(e.baseDir, schemaPath)
	}
	if err := validatePathWithinBase(schemaPath, e.baseDir); err != nil {
		return false, err.Error()
	}

	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return false, fmt.Sprintf("failed to read schema file: %v", err)
	}
	document, err := json.Marshal(actual)
	if err != nil {
		return false, fmt.Sprintf("failed to marshal actual value: %v", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return false, fmt.Sprintf("schema validation error: %v", err)
	}
	if result.Valid() {
		return true, ""
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return false, fmt.Sprintf("schema validation failed: %s", strings.Join(problems, "; "))
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	if f, ok := toFloat64(v); ok && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}
