package persisted

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"lazycookie/internal/jar"

	"github.com/cockroachdb/pebble"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

var _ jar.Jar = (*Jar)(nil)

var (
	cookiePrefix = []byte("c/")
	cookieUpper  = []byte("c0")
)

var mh codec.MsgpackHandle

// record is the msgpack value stored for each cookie.
type record struct {
	Value string
	// Expiry in unix nanoseconds. 0 is a session cookie.
	Expiry int64
	Seq    uint64
}

func (r record) expired(now time.Time) bool {
	return r.Expiry != 0 && r.Expiry <= now.UnixNano()
}

// Jar is a cookie jar persisted in a pebble database.
type Jar struct {
	db  *pebble.DB
	seq uint64
	mu  sync.Mutex

	jar.Options
}

// Open opens (or creates) the jar under dir.
func Open(dir string, opts ...jar.Option) (*Jar, error) {
	path := filepath.Join(dir, "pebble")
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	j := &Jar{
		db:      db,
		Options: jar.ApplyOptions(opts),
	}
	if err := j.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// load restores the sequence counter and drops session cookies left over
// from a previous process.
func (j *Jar) load() error {
	iter, err := j.newIter()
	if err != nil {
		return err
	}
	b := j.db.NewBatch()
	defer b.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		r, err := decode(iter.Value())
		if err != nil {
			_ = iter.Close()
			return fmt.Errorf("decode %q: %w", iter.Key(), err)
		}
		if r.Seq > j.seq {
			j.seq = r.Seq
		}
		if r.Expiry == 0 && !j.KeepSession {
			if err := b.Delete(bytes.Clone(iter.Key()), nil); err != nil {
				_ = iter.Close()
				return err
			}
		}
	}
	if err := iter.Close(); err != nil {
		return err
	}
	if b.Empty() {
		return nil
	}
	slog.Info("dropping session cookies", "count", b.Count())
	return b.Commit(pebble.Sync)
}

func (j *Jar) Cookie() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.Now()

	iter, err := j.newIter()
	if err != nil {
		slog.Error("failed to read cookies", "error", err)
		return ""
	}
	var (
		live  []jar.Entry
		stale [][]byte
	)
	for iter.First(); iter.Valid(); iter.Next() {
		name := string(iter.Key()[len(cookiePrefix):])
		r, err := decode(iter.Value())
		if err != nil {
			slog.Error("skipping undecodable cookie", "name", name, "error", err)
			continue
		}
		if r.expired(now) {
			stale = append(stale, bytes.Clone(iter.Key()))
			continue
		}
		e := jar.Entry{Name: name, Value: r.Value, Seq: r.Seq}
		if r.Expiry != 0 {
			e.Expiry = time.Unix(0, r.Expiry)
		}
		live = append(live, e)
	}
	if err := iter.Close(); err != nil {
		slog.Error("failed to close iterator", "error", err)
	}
	j.purge(stale)

	jar.SortBySeq(live)
	return jar.Format(live)
}

func (j *Jar) SetCookie(directive string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.Now()
	d := jar.ParseDirective(directive, now)
	key := cookieKey(d.Name)

	if d.Expired(now) {
		if err := j.db.Delete(key, pebble.Sync); err != nil {
			slog.Error("failed to delete cookie", "name", d.Name, "error", err)
		}
		return
	}

	r := record{Value: d.Value}
	if !d.Expiry.IsZero() {
		r.Expiry = d.Expiry.UnixNano()
	}
	old, err := j.get(key)
	switch {
	case err == nil:
		r.Seq = old.Seq
	case errors.Is(err, pebble.ErrNotFound):
		j.seq++
		r.Seq = j.seq
	default:
		slog.Error("failed to read cookie", "name", d.Name, "error", err)
		return
	}

	v, err := encode(r)
	if err != nil {
		slog.Error("failed to encode cookie", "name", d.Name, "error", err)
		return
	}
	if err := j.db.Set(key, v, pebble.Sync); err != nil {
		slog.Error("failed to store cookie", "name", d.Name, "error", err)
	}
}

func (j *Jar) Close() error {
	return j.db.Close()
}

func (j *Jar) get(key []byte) (record, error) {
	v, closer, err := j.db.Get(key)
	if err != nil {
		return record{}, err
	}
	defer closer.Close()
	return decode(v)
}

func (j *Jar) purge(keys [][]byte) {
	if len(keys) == 0 {
		return
	}
	b := j.db.NewBatch()
	defer b.Close()
	for _, k := range keys {
		_ = b.Delete(k, nil)
	}
	if err := b.Commit(pebble.Sync); err != nil {
		slog.Error("failed to purge expired cookies", "error", err)
	}
}

func (j *Jar) newIter() (*pebble.Iterator, error) {
	return j.db.NewIter(&pebble.IterOptions{
		LowerBound: cookiePrefix,
		UpperBound: cookieUpper,
	})
}

func cookieKey(name string) []byte {
	return append(bytes.Clone(cookiePrefix), name...)
}

func encode(r record) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, &mh).Encode(r)
	return b, err
}

func decode(b []byte) (record, error) {
	var r record
	err := codec.NewDecoderBytes(b, &mh).Decode(&r)
	return r, err
}
