// Package validator 把模型返回的松散 JSON 规范化为 model.GenerationResult。
// 未经校验的 interface{} 只在本包内部流动，调用方只能拿到强类型结果。
package validator

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"uigen-go/internal/model"
)

//go:embed schema/generation.schema.json
var generationSchemaJSON string

var generationSchema = jsonschema.MustCompileString("generation.schema.json", generationSchemaJSON)

var (
	// ErrInvalidShape 表示结果无法解析或不符合 schema。
	ErrInvalidShape = errors.New("invalid AI response shape")
	// ErrMissingCode 表示结构合法但没有代码。
	ErrMissingCode = errors.New("no code generated")
)

// 规范化 plan 时使用的默认值。
const (
	DefaultGoal   = "UI generation"
	DefaultLayout = "Custom"
)

var (
	fenceOpen  = regexp.MustCompile("^```(json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// Validate 规范化并校验 raw，成功时返回强类型结果。
// raw 可以是已解析的 JSON 值，也可以是需要再解析一次的字符串（允许带 markdown 代码围栏）。
func Validate(raw interface{}) (*model.GenerationResult, error) {
	if s, ok := raw.(string); ok {
		decoded, err := decodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
		}
		raw = decoded
	}

	normalized := Normalize(raw)
	if err := generationSchema.Validate(normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}

	obj := normalized.(map[string]interface{})
	code, _ := obj["code"].(string)
	if code == "" {
		return nil, ErrMissingCode
	}

	result := &model.GenerationResult{
		Code:        code,
		Explanation: obj["explanation"].(string),
	}
	if p, ok := obj["plan"].(map[string]interface{}); ok {
		plan := &model.Plan{
			Goal:       p["goal"].(string),
			Layout:     p["layout"].(string),
			Components: []string{},
		}
		for _, c := range p["components"].([]interface{}) {
			plan.Components = append(plan.Components, c.(string))
		}
		result.Plan = plan
	}
	return result, nil
}

// Normalize 返回 raw 的规范化副本，不修改入参。
//   - plan 是字符串：包装成 {goal: s, layout: "Custom", components: []}
//   - plan 是对象：缺失或类型不对的字段使用默认值，components 元素全部转成字符串
//   - 其他形状保持原样，交给 schema 拒绝
func Normalize(raw interface{}) interface{} {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return raw
	}
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		out[k] = v
	}

	switch plan := obj["plan"].(type) {
	case string:
		out["plan"] = map[string]interface{}{
			"goal":       plan,
			"layout":     DefaultLayout,
			"components": []interface{}{},
		}
	case map[string]interface{}:
		goal, ok := plan["goal"].(string)
		if !ok {
			goal = DefaultGoal
		}
		layout, ok := plan["layout"].(string)
		if !ok {
			layout = DefaultLayout
		}
		components := []interface{}{}
		if items, ok := plan["components"].([]interface{}); ok {
			for _, item := range items {
				components = append(components, stringify(item))
			}
		}
		out["plan"] = map[string]interface{}{
			"goal":       goal,
			"layout":     layout,
			"components": components,
		}
	}
	return out
}

// stringify 按 JavaScript String(v) 的规则把 JSON 值转成字符串：
// 对象为 "[object Object]"，数组按逗号拼接（null 元素为空串），数字使用最短十进制形式。
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return formatNumber(f)
	case float64:
		return formatNumber(t)
	case []interface{}:
		parts := make([]string, len(t))
		for i, item := range t {
			if item != nil {
				parts[i] = stringify(item)
			}
		}
		return strings.Join(parts, ",")
	case map[string]interface{}:
		return "[object Object]"
	default:
		return fmt.Sprint(t)
	}
}

// formatNumber 输出与 JavaScript Number#toString 一致的十进制表示。
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go 输出 "1e-07"，JavaScript 输出 "1e-7"
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StripFences 去掉包裹内容的 markdown 代码围栏。
func StripFences(s string) string {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "```") {
		clean = fenceOpen.ReplaceAllString(clean, "")
		clean = fenceClose.ReplaceAllString(clean, "")
	}
	return clean
}

func decodeString(s string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(StripFences(s)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}
