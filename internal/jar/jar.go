// Package jar defines the platform cookie storage boundary: a single
// readable and writable cookie string, the way a browser exposes
// document.cookie.
package jar

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Separator joins cookies in the string returned by Jar.Cookie.
const Separator = "; "

// Jar is the platform cookie storage.
//
// Cookie returns every live cookie as "name=value" pairs joined by "; ".
// SetCookie applies one cookie directive ("name=value; attr=...").
// Failures are silent, like in a browser.
type Jar interface {
	Cookie() string
	SetCookie(directive string)
}

// Directive is a parsed cookie directive.
type Directive struct {
	Name  string
	Value string
	// Expiry is the absolute expiry. Zero means a session cookie.
	Expiry time.Time
}

// Expired reports whether the cookie must be removed at now.
func (d Directive) Expired(now time.Time) bool {
	return !d.Expiry.IsZero() && !d.Expiry.After(now)
}

// ParseDirective parses a cookie directive as written to document.cookie.
//
// Only max-age and expires are honored. Unparsable values, such as
// "undefined", are ignored. max-age wins over expires.
func ParseDirective(directive string, now time.Time) Directive {
	first, attrs, _ := strings.Cut(directive, ";")
	first = strings.TrimSpace(first)

	var d Directive
	if name, value, ok := strings.Cut(first, "="); ok {
		d.Name = strings.TrimSpace(name)
		d.Value = strings.TrimSpace(value)
	} else {
		d.Value = first
	}

	var (
		maxAge    int
		hasMaxAge bool
		expires   time.Time
	)
	for _, attr := range strings.Split(attrs, ";") {
		key, value, _ := strings.Cut(strings.TrimSpace(attr), "=")
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "max-age":
			secs, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			maxAge, hasMaxAge = secs, true
		case "expires":
			t, err := http.ParseTime(value)
			if err != nil {
				continue
			}
			expires = t
		}
	}

	switch {
	case hasMaxAge && maxAge <= 0:
		d.Expiry = time.Unix(0, 0)
	case hasMaxAge:
		d.Expiry = now.Add(time.Duration(maxAge) * time.Second)
	case !expires.IsZero():
		d.Expiry = expires
	}
	return d
}

// Entry is a stored cookie.
type Entry struct {
	Name   string
	Value  string
	Expiry time.Time
	// Seq is the creation order. Overwrites keep the original Seq.
	Seq uint64
}

// Format renders entries as a cookie string. A nameless entry is written
// as its bare value.
func Format(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			parts = append(parts, e.Value)
			continue
		}
		parts = append(parts, e.Name+"="+e.Value)
	}
	return strings.Join(parts, Separator)
}

// SortBySeq orders entries by creation.
func SortBySeq(entries []Entry) {
	sort.Slice(entries, func(i, k int) bool {
		return entries[i].Seq < entries[k].Seq
	})
}

// Split splits a cookie string into its segments. An empty string has none.
func Split(cookies string) []string {
	if cookies == "" {
		return nil
	}
	return strings.Split(cookies, Separator)
}

// Options are shared by the emulated jars.
type Options struct {
	Now         func() time.Time
	KeepSession bool
}

type Option func(*Options)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Now = now
	}
}

// WithKeepSession keeps session cookies when a persistent jar is reopened.
// By default they are dropped, as a browser does on restart.
func WithKeepSession() Option {
	return func(o *Options) {
		o.KeepSession = true
	}
}

func ApplyOptions(opts []Option) Options {
	options := Options{
		Now: time.Now,
	}
	for _, o := range opts {
		o(&options)
	}
	return options
}
