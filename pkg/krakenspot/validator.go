package krakenspot

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Options is the option bag accepted by every endpoint method. Keys named by
// the endpoint's rules are validated; any other key is passed through to the
// exchange as is.
type Options map[string]any

type ruleKind uint8

const (
	listRule ruleKind = iota // comma separated tokens
	enumRule                 // exactly one allowed string
	stringRule
	intRule
	unixRule
	boolRule
)

// Rule validates and normalizes one option. Rules are optional unless built
// with Required(); an optional rule is skipped when its key is absent.
type Rule struct {
	kind     ruleKind
	message  string
	required bool
	omitAll  bool
	allowed  map[string]bool
}

// PairList accepts "all" or a comma separated list such as "ETHUSD,XRPUSD".
// "all" is sent as given unless the rule is built with OmitAll().
func PairList(message string) Rule {
	return Rule{kind: listRule, message: message}
}

// IDList accepts a comma separated list of ids; "all" has no special meaning.
func IDList(message string) Rule {
	return Rule{kind: listRule, message: message}
}

func Enum(message string, allowed ...string) Rule {
	r := Rule{kind: enumRule, message: message, allowed: make(map[string]bool, len(allowed))}
	for _, a := range allowed {
		r.allowed[a] = true
	}
	return r
}

func String(message string) Rule {
	return Rule{kind: stringRule, message: message}
}

// Integer accepts Go integer kinds only. If allowed values are given the
// value must be one of them.
func Integer(message string, allowed ...int64) Rule {
	r := Rule{kind: intRule, message: message}
	if len(allowed) > 0 {
		r.allowed = make(map[string]bool, len(allowed))
		for _, a := range allowed {
			r.allowed[strconv.FormatInt(a, 10)] = true
		}
	}
	return r
}

// UnixTime accepts non-negative integers, time.Time, or a string of decimal
// digits (the exchange also uses nanosecond trade ids as 'since' cursors).
func UnixTime(message string) Rule {
	return Rule{kind: unixRule, message: message}
}

func Boolean(message string) Rule {
	return Rule{kind: boolRule, message: message}
}

func (r Rule) Required() Rule {
	r.required = true
	return r
}

// OmitAll drops the parameter when the value is "all". Use it only where the
// exchange already defaults to every pair or asset.
func (r Rule) OmitAll() Rule {
	r.omitAll = true
	return r
}

func (r Rule) Message() string {
	return r.message
}

// check returns the encoded value, or omit=true when the value normalizes to
// "not sent".
func (r Rule) check(value any) (encoded string, omit bool, ok bool) {
	switch r.kind {
	case listRule:
		s, isString := value.(string)
		if !isString || s == "" {
			return "", false, false
		}
		if r.omitAll && s == "all" {
			return "", true, true
		}
		for _, token := range strings.Split(s, ",") {
			if strings.TrimSpace(token) == "" {
				return "", false, false
			}
		}
		return s, false, true
	case enumRule:
		s, isString := value.(string)
		if !isString || !r.allowed[s] {
			return "", false, false
		}
		return s, false, true
	case stringRule:
		s, isString := value.(string)
		if !isString || s == "" {
			return "", false, false
		}
		return s, false, true
	case intRule:
		s, isInt := formatInteger(value)
		if !isInt {
			return "", false, false
		}
		if r.allowed != nil && !r.allowed[s] {
			return "", false, false
		}
		return s, false, true
	case unixRule:
		switch v := value.(type) {
		case time.Time:
			if v.Unix() < 0 {
				return "", false, false
			}
			return strconv.FormatInt(v.Unix(), 10), false, true
		case string:
			if v == "" || strings.TrimLeft(v, "0123456789") != "" {
				return "", false, false
			}
			return v, false, true
		}
		s, isInt := formatInteger(value)
		if !isInt || strings.HasPrefix(s, "-") {
			return "", false, false
		}
		return s, false, true
	case boolRule:
		b, isBool := value.(bool)
		if !isBool {
			return "", false, false
		}
		return strconv.FormatBool(b), false, true
	}
	return "", false, false
}

// Validate checks 'opts' against the endpoint rules and returns the
// url-encodable payload. The first violated rule, in parameter name order,
// aborts with a *ValidationError. A caller supplied "nonce" is dropped.
func (es EndpointSpec) Validate(opts Options) (url.Values, error) {
	names := make([]string, 0, len(opts)+len(es.Rules))
	seen := make(map[string]bool, len(opts)+len(es.Rules))
	for name := range es.Rules {
		names = append(names, name)
		seen[name] = true
	}
	for name := range opts {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	payload := url.Values{}
	for _, name := range names {
		if name == "nonce" {
			continue
		}
		value, present := opts[name]
		rule, hasRule := es.Rules[name]
		if !hasRule {
			if s, ok := formatValue(value); present && ok {
				payload.Set(name, s)
			}
			continue
		}
		if !present {
			if rule.required {
				return nil, &ValidationError{Endpoint: es.Name, Param: name, Message: rule.message}
			}
			continue
		}
		encoded, omit, ok := rule.check(value)
		if !ok {
			return nil, &ValidationError{Endpoint: es.Name, Param: name, Message: rule.message}
		}
		if !omit {
			payload.Set(name, encoded)
		}
	}
	return payload, nil
}

func formatInteger(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	}
	return "", false
}

// formatValue stringifies pass-through options. nil is treated as absent and
// slices are joined with commas, the way the exchange takes lists.
func formatValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []string:
		return strings.Join(v, ","), true
	case []byte:
		return string(v), true
	case time.Time:
		return strconv.FormatInt(v.Unix(), 10), true
	case fmt.Stringer:
		return v.String(), true
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := formatValue(rv.Index(i).Interface()); ok {
				items = append(items, s)
			}
		}
		return strings.Join(items, ","), true
	}
	return fmt.Sprintf("%v", value), true
}
