package memory

import (
	"sync"

	"lazycookie/internal/jar"
)

var _ jar.Jar = (*Jar)(nil)

// Jar is an in-memory cookie jar. It behaves like document.cookie for a
// single document.
type Jar struct {
	entries map[string]jar.Entry
	seq     uint64
	mu      sync.Mutex

	jar.Options
}

func New(opts ...jar.Option) *Jar {
	return &Jar{
		entries: make(map[string]jar.Entry),
		Options: jar.ApplyOptions(opts),
	}
}

// NewFromString returns a Jar seeded with a cookie string.
func NewFromString(cookies string, opts ...jar.Option) *Jar {
	j := New(opts...)
	for _, c := range jar.Split(cookies) {
		j.SetCookie(c)
	}
	return j
}

func (j *Jar) Cookie() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.Now()
	live := make([]jar.Entry, 0, len(j.entries))
	for name, e := range j.entries {
		if !e.Expiry.IsZero() && !e.Expiry.After(now) {
			delete(j.entries, name)
			continue
		}
		live = append(live, e)
	}
	jar.SortBySeq(live)
	return jar.Format(live)
}

func (j *Jar) SetCookie(directive string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.Now()
	d := jar.ParseDirective(directive, now)
	if d.Expired(now) {
		delete(j.entries, d.Name)
		return
	}
	e, ok := j.entries[d.Name]
	if !ok {
		j.seq++
		e.Seq = j.seq
	}
	e.Name, e.Value, e.Expiry = d.Name, d.Value, d.Expiry
	j.entries[d.Name] = e
}

// Clear drops every cookie.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = make(map[string]jar.Entry)
}
