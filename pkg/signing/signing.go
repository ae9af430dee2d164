// Package signing implements the WOO X request authentication protocol:
// deterministic canonicalization of request parameters into a query string,
// and HMAC-SHA256 signing of that string concatenated with a millisecond
// timestamp. The canonical form must match the server's verification
// byte-for-byte, so every step here is explicit rather than delegated to a
// serialization library.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/core"
)

// EncodingError reports a parameter value that cannot be represented as a
// scalar query-string value. It indicates a programming defect and is not
// retryable.
type EncodingError struct {
	// Key is the parameter name that failed to encode.
	Key string
	// Value is the offending value.
	Value any
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode parameter %q: unsupported value of type %T", e.Key, e.Value)
}

// FormatParams materializes the present fields of params as url.Values.
// Fields with a nil value (untyped nil or a typed nil pointer) are dropped
// entirely; they do not appear as empty values. Slices of scalars are
// flattened using the indexed key[i]=v convention. A value that is neither a
// supported scalar nor a slice of supported scalars yields an *EncodingError.
//
// The returned values are both the signing input and the transmitted
// parameters; callers must not reformat them before sending.
func FormatParams(params core.Params) (url.Values, error) {
	values := make(url.Values, len(params))
	for key, value := range params {
		if isAbsent(value) {
			continue
		}
		switch v := value.(type) {
		case []string:
			for i, elem := range v {
				values.Set(indexedKey(key, i), elem)
			}
		case []any:
			for i, elem := range v {
				if isAbsent(elem) {
					return nil, &EncodingError{Key: indexedKey(key, i), Value: elem}
				}
				s, ok := formatScalar(elem)
				if !ok {
					return nil, &EncodingError{Key: indexedKey(key, i), Value: elem}
				}
				values.Set(indexedKey(key, i), s)
			}
		default:
			s, ok := formatScalar(value)
			if !ok {
				return nil, &EncodingError{Key: key, Value: value}
			}
			values.Set(key, s)
		}
	}
	return values, nil
}

func indexedKey(key string, i int) string {
	return key + "[" + strconv.Itoa(i) + "]"
}

// isAbsent reports whether the value marks its field as not present.
// Untyped nil and typed nil pointers both count: an optional field that was
// never set must vanish from the canonical string, not encode as empty.
func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// formatScalar converts a supported scalar to its exact wire text.
// Floats use the minimal decimal form (9000.0 becomes "9000"); decimals keep
// whatever textual form the caller constructed them with.
func formatScalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		return *v, true
	case bool:
		return strconv.FormatBool(v), true
	case *bool:
		return strconv.FormatBool(*v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case *int64:
		return strconv.FormatInt(*v, 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case *float64:
		return strconv.FormatFloat(*v, 'f', -1, 64), true
	case apd.Decimal:
		return v.Text('f'), true
	case *apd.Decimal:
		return v.Text('f'), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// Canonicalize converts the formatted parameters into the canonical query
// string: each pair is encoded as key=value with RFC 3986 query escaping,
// then the fully formed segments are sorted byte-wise and joined with "&".
//
// The sort runs on encoded segments, not on keys: the server compares the
// final string, so ordering must be decided after escaping. Zero pairs yield
// the empty string.
func Canonicalize(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	segments := make([]string, 0, len(values))
	for key, vs := range values {
		for _, v := range vs {
			segments = append(segments, escape(key)+"="+escape(v))
		}
	}
	sort.Strings(segments)
	return strings.Join(segments, "&")
}

// escape applies RFC 3986 query-component escaping. url.QueryEscape encodes
// a space as "+", which the server does not accept inside the signed string.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Sign computes the lowercase hex HMAC-SHA256 signature over the canonical
// query string joined with the millisecond timestamp by a literal pipe:
//
//	{canonical}|{timestamp}
//
// An empty canonical string signs "|{timestamp}". Sign is a pure function
// and safe for concurrent use; secrets of any length are accepted.
func Sign(canonical string, timestamp int64, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(canonical))
	mac.Write([]byte{'|'})
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams formats, canonicalizes, and signs params in one step. It
// returns the signature together with the formatted values so the caller can
// transmit exactly what was signed.
func SignParams(params core.Params, timestamp int64, secret []byte) (string, url.Values, error) {
	values, err := FormatParams(params)
	if err != nil {
		return "", nil, err
	}
	return Sign(Canonicalize(values), timestamp, secret), values, nil
}
