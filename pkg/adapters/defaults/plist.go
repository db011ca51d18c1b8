package defaults

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// readKey finds key in the top-level dict of an XML property list, as
// printed by `defaults export <domain> -`. The element holding the value
// is returned, or nil when the key is absent.
func readKey(plist []byte, key string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(plist); err != nil {
		return nil, fmt.Errorf("parsing plist: %w", err)
	}
	root := doc.SelectElement("plist")
	if root == nil {
		return nil, fmt.Errorf("parsing plist: no <plist> element")
	}
	dict := root.SelectElement("dict")
	if dict == nil {
		// An empty or missing domain exports as an empty plist.
		return nil, nil
	}
	return lookup(dict, key), nil
}

// lookup returns the value element following <key>key</key> in dict.
func lookup(dict *etree.Element, key string) *etree.Element {
	children := dict.ChildElements()
	for i := 0; i+1 < len(children); i++ {
		if children[i].Tag == "key" && children[i].Text() == key {
			return children[i+1]
		}
	}
	return nil
}

// matches reports whether the plist element holds want, interpreted as
// valueType (auto-detected from want's Go type when empty).
func matches(el *etree.Element, want interface{}, valueType string) bool {
	if el == nil {
		return false
	}
	if valueType == "" {
		valueType = detectType(want)
	}

	switch valueType {
	case "bool":
		b, ok := toBool(want)
		return ok && ((b && el.Tag == "true") || (!b && el.Tag == "false"))
	case "int":
		if el.Tag != "integer" {
			return false
		}
		got, err := strconv.ParseInt(strings.TrimSpace(el.Text()), 10, 64)
		return err == nil && formatScalar(got) == formatScalar(want)
	case "float":
		if el.Tag != "real" && el.Tag != "integer" {
			return false
		}
		got, err := strconv.ParseFloat(strings.TrimSpace(el.Text()), 64)
		w, ok := toFloat(want)
		return err == nil && ok && got == w
	case "array":
		if el.Tag != "array" {
			return false
		}
		items, ok := want.([]interface{})
		if !ok {
			return false
		}
		children := el.ChildElements()
		if len(children) != len(items) {
			return false
		}
		for i, child := range children {
			if scalarText(child) != formatScalar(items[i]) {
				return false
			}
		}
		return true
	case "dict":
		if el.Tag != "dict" {
			return false
		}
		m, ok := want.(map[string]interface{})
		if !ok {
			return false
		}
		if len(el.ChildElements()) != 2*len(m) {
			return false
		}
		for k, v := range m {
			child := lookup(el, k)
			if child == nil || scalarText(child) != formatScalar(v) {
				return false
			}
		}
		return true
	default:
		return el.Tag == "string" && el.Text() == formatScalar(want)
	}
}

// scalarText renders a scalar plist element the way formatScalar renders
// Go values, so the two can be compared.
func scalarText(el *etree.Element) string {
	switch el.Tag {
	case "true":
		return "true"
	case "false":
		return "false"
	default:
		return strings.TrimSpace(el.Text())
	}
}

func detectType(v interface{}) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int, int64, int32, uint, uint64, uint32:
		return "int"
	case float64, float32:
		return "float"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "dict"
	default:
		return "string"
	}
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(b))
		if err == nil {
			return parsed, true
		}
		switch strings.ToLower(b) {
		case "yes":
			return true, true
		case "no":
			return false, true
		}
	case int:
		return b != 0, true
	}
	return false, false
}

func toFloat(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	case int64:
		return float64(f), true
	case string:
		parsed, err := strconv.ParseFloat(f, 64)
		return parsed, err == nil
	}
	return 0, false
}

// formatScalar renders a value as a defaults command-line argument.
func formatScalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// writeArgs builds the type flag and value arguments of `defaults write`.
func writeArgs(value interface{}, valueType string) ([]string, error) {
	if valueType == "" {
		valueType = detectType(value)
	}
	switch valueType {
	case "bool":
		b, ok := toBool(value)
		if !ok {
			return nil, fmt.Errorf("value %v is not a boolean", value)
		}
		return []string{"-bool", formatScalar(b)}, nil
	case "int":
		return []string{"-int", formatScalar(value)}, nil
	case "float":
		return []string{"-float", formatScalar(value)}, nil
	case "string":
		return []string{"-string", formatScalar(value)}, nil
	case "array":
		items, ok := value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("value %v is not a list", value)
		}
		args := []string{"-array"}
		for _, item := range items {
			args = append(args, formatScalar(item))
		}
		return args, nil
	case "dict":
		m, ok := value.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("value %v is not a mapping", value)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		args := []string{"-dict"}
		for _, k := range keys {
			args = append(args, k, formatScalar(m[k]))
		}
		return args, nil
	}
	return nil, fmt.Errorf("unknown value type %q", valueType)
}
