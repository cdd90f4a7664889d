package source

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/resolver"
)

// Bolt reads images stored in bolt database
// roots are bucket names, keys are file names and values image content
type Bolt struct {
	db       *bolt.DB
	resolver *resolver.Resolver
	closeDB  bool
}

// NewBolt creates source on top of opened database
func NewBolt(db *bolt.DB, buckets []string, exts []string) *Bolt {
	return &Bolt{db: db, resolver: resolver.New(buckets, exts, resolver.KeyJoin)}
}

func (b *Bolt) Kind() string {
	return "bolt"
}

func (b *Bolt) Roots() []string {
	return b.resolver.Dirs()
}

// Close closes database if it was opened by source
func (b *Bolt) Close() error {
	if !b.closeDB {
		return nil
	}
	return b.db.Close()
}

func (b *Bolt) Fetch(ctx context.Context, id string) (*Image, error) {
	return fetch(ctx, b.Kind(), b.resolver, resolver.ProberFunc(b.probe), b.read, id)
}

func (b *Bolt) Exists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, b.Kind(), b.resolver, resolver.ProberFunc(b.probe), name)
}

// List returns image keys of every bucket, buckets which don't exist are skipped
func (b *Bolt) List(_ context.Context) ([]string, error) {
	t := monitoring.Report().Timer("imgfind_source_time;kind:bolt,method:list")
	defer t.Done()

	names := newNameSet()
	err := b.db.View(func(tx *bolt.Tx) error {
		for _, name := range b.resolver.Dirs() {
			bucket := tx.Bucket([]byte(name))
			if bucket == nil {
				continue
			}

			err := bucket.ForEach(func(k, v []byte) error {
				if v != nil {
					names.add(string(k))
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("could not list bucket %q: %w", name, err)
			}
		}
		return nil
	})

	return names.names, err
}

// Put stores image in bucket, bucket is created when needed
func (b *Bolt) Put(bucket, name string, body []byte) error {
	if err := resolver.ValidateIdentifier(name); err != nil {
		return fmt.Errorf("%q: %w", name, err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("could not ensure bucket %q exists: %w", bucket, err)
		}

		if err := bkt.Put([]byte(name), body); err != nil {
			return fmt.Errorf("could not put %.40q: %w", name, err)
		}
		return nil
	})
}

func (b *Bolt) probe(_ context.Context, c resolver.Candidate) (bool, error) {
	found := false
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(c.Dir))
		if bucket != nil {
			found = bucket.Get([]byte(c.Name)) != nil
		}
		return nil
	})

	return found, err
}

func (b *Bolt) read(c resolver.Candidate) ([]byte, error) {
	var body []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(c.Dir))
		if bucket == nil {
			return fmt.Errorf("%.40q: %w", c.Path(), resolver.ErrNotFound)
		}

		value := bucket.Get([]byte(c.Name))
		if value == nil {
			return fmt.Errorf("%.40q: %w", c.Path(), resolver.ErrNotFound)
		}

		// value is valid only during transaction
		body = make([]byte, len(value))
		copy(body, value)
		return nil
	})

	return body, err
}
