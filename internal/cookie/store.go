// Package cookie is a key/value view over a cookie jar's single
// "; "-delimited cookie string.
//
// Nothing is cached: every read parses the jar's current string again, and
// every write is a single directive handed to the jar.
package cookie

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lazycookie/internal/jar"
)

var ErrNotFound = errors.New("key not found")

// placeholder is written for an unset max-Age or expires attribute.
const placeholder = "undefined"

type Store struct {
	jar   jar.Jar
	count int

	StoreOptions
}

type StoreOptions struct {
	omitUnset bool
}

type StoreOption func(*StoreOptions)

// WithoutPlaceholders omits unset max-Age and expires attributes instead of
// writing them as "undefined".
func WithoutPlaceholders() StoreOption {
	return func(o *StoreOptions) {
		o.omitUnset = true
	}
}

func applyStoreOptions(opts []StoreOption) StoreOptions {
	var options StoreOptions
	for _, o := range opts {
		o(&options)
	}
	return options
}

// New returns a Store over j. The cookie count is taken once, here, as the
// number of "; " segments, so an empty jar counts 1.
func New(j jar.Jar, opts ...StoreOption) *Store {
	return &Store{
		jar:          j,
		count:        len(strings.Split(j.Cookie(), jar.Separator)),
		StoreOptions: applyStoreOptions(opts),
	}
}

// Len returns the number of cookies the jar held when the Store was
// created. It is never refreshed and drifts once cookies are added or
// removed.
func (s *Store) Len() int {
	return s.count
}

// Get returns the current value of key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	v, ok := s.parse().values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set writes key=value, overwriting any cookie with the same key.
func (s *Store) Set(key, value string, opts ...SetOption) {
	o := applySetOptions(opts)

	var b strings.Builder
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
	switch {
	case o.maxAge != nil:
		b.WriteString("; max-Age=" + strconv.Itoa(*o.maxAge))
	case !s.omitUnset:
		b.WriteString("; max-Age=" + placeholder)
	}
	switch {
	case o.expires != nil:
		b.WriteString("; expires=" + o.expires.UTC().Format(http.TimeFormat))
	case !s.omitUnset:
		b.WriteString("; expires=" + placeholder)
	}
	s.jar.SetCookie(b.String())
}

// Delete expires key immediately.
func (s *Store) Delete(key string) {
	s.jar.SetCookie(key + "=; max-Age=-1")
}

// Clear deletes every key currently visible in the jar. Cookies scoped to
// another path or domain cannot be addressed and survive.
func (s *Store) Clear() {
	for _, key := range s.parse().keys {
		s.Delete(key)
	}
}

// Dump returns the current key/value mapping.
func (s *Store) Dump() map[string]string {
	return s.parse().values
}

// Keys returns the current keys in cookie string order.
func (s *Store) Keys() []string {
	return s.parse().keys
}

type collection struct {
	keys   []string
	values map[string]string
}

// parse splits the jar's string on "; " and every segment on its first
// "=". Later duplicates win. A segment without "=" is a key with no value.
func (s *Store) parse() collection {
	segments := jar.Split(s.jar.Cookie())
	c := collection{
		keys:   make([]string, 0, len(segments)),
		values: make(map[string]string, len(segments)),
	}
	seen := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		key, value, ok := strings.Cut(seg, "=")
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			c.keys = append(c.keys, key)
		}
		if ok {
			c.values[key] = value
		} else {
			delete(c.values, key)
		}
	}
	return c
}

type setOptions struct {
	maxAge  *int
	expires *time.Time
}

type SetOption func(*setOptions)

// WithMaxAge sets the relative lifetime in seconds. Zero or negative
// expires the cookie at once.
func WithMaxAge(seconds int) SetOption {
	return func(o *setOptions) {
		o.maxAge = &seconds
	}
}

// WithExpires sets the absolute expiry.
func WithExpires(t time.Time) SetOption {
	return func(o *setOptions) {
		o.expires = &t
	}
}

func applySetOptions(opts []SetOption) setOptions {
	var options setOptions
	for _, o := range opts {
		o(&options)
	}
	return options
}
