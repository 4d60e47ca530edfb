package inventory

import (
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	maxFormBody = 1 << 20

	fieldMethod   = "_method"
	fieldID       = "id"
	fieldName     = "name"
	fieldQuantity = "quantity"
	fieldPrice    = "price"
)

type form map[string]string

func readForm(w http.ResponseWriter, r *http.Request) (form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	defer func() { _ = r.Body.Close() }()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return parseForm(string(raw)), nil
}

// parseForm decodes a urlencoded body. Pairs without '=', with an empty key or
// value, or with a broken escape are dropped.
func parseForm(body string) form {
	f := form{}
	if body == "" {
		return f
	}

	for _, pair := range strings.Split(body, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" || v == "" {
			continue
		}

		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		f[key] = val
	}
	return f
}

func (f form) has(key string) bool {
	_, ok := f[key]
	return ok
}

// method returns the upper-cased override, POST when absent.
func (f form) method() string {
	m, ok := f[fieldMethod]
	if !ok {
		return http.MethodPost
	}
	return strings.ToUpper(m)
}

// Numeric fields coerce to zero on parse failure instead of rejecting the request.

func (f form) intValue(key string) int {
	return parseInt(f[key])
}

func (f form) floatValue(key string) float64 {
	return parseFloat(f[key])
}

func (f form) patch() Patch {
	var p Patch
	if f.has(fieldName) {
		name := f[fieldName]
		p.Name = &name
	}
	if f.has(fieldQuantity) {
		q := f.intValue(fieldQuantity)
		p.Quantity = &q
	}
	if f.has(fieldPrice) {
		price := f.floatValue(fieldPrice)
		p.Price = &price
	}
	return p
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
