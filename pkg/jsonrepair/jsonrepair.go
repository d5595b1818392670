// Package jsonrepair 从模型返回的原始文本中尽力取出一个 JSON 值。
//
// 规则：先整体解析；失败后取第一个 '{' 到最后一个 '}' 之间的片段再解析；
// 都失败则视为无法解析。这是启发式恢复：如果说明文字里还有花括号，
// 截取出的片段可能不是模型想给的那个对象。
package jsonrepair

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// bracePattern 贪婪匹配第一个 '{' 到最后一个 '}'。
var bracePattern = regexp.MustCompile(`(?s)\{.*\}`)

// ErrUnparsable 表示原始文本中找不到可解析的 JSON。
var ErrUnparsable = errors.New("jsonrepair: no parsable JSON in text")

// Extract 返回解析出的值。null 视为无法解析。
func Extract(raw string) (interface{}, error) {
	if v, err := parse(raw); err == nil && v != nil {
		return v, nil
	}
	span := bracePattern.FindString(raw)
	if span == "" {
		return nil, ErrUnparsable
	}
	v, err := parse(span)
	if err != nil || v == nil {
		return nil, ErrUnparsable
	}
	return v, nil
}

// Span 返回 Extract 第二步会尝试的片段，主要用于排查问题。
func Span(raw string) string {
	return bracePattern.FindString(raw)
}

// parse 严格解析整个字符串，末尾不允许有多余内容。数字保持原样（json.Number）。
func parse(s string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("jsonrepair: trailing data after JSON value")
	}
	return v, nil
}
